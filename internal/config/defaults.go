package config

import "runtime"

// Default configuration values. They reproduce the ESP-IDF component
// repository layout: components/<name>/examples/<example>/CMakeLists.txt.
const (
	DefaultMarker      = "CMakeLists.txt"
	DefaultContainer   = "examples"
	DefaultSourceDir   = "main"
	DefaultBuildDir    = "build"
	DefaultJobsEnv     = "CMAKE_BUILD_PARALLEL_LEVEL"
	DefaultParallel    = 1
	DefaultTimeout     = 300 // seconds
	DefaultGracePeriod = 5   // seconds
	DefaultLogDir      = "."
	DefaultNaming      = "component"
	DefaultToolEnvVar  = "IDF_PATH"
)

// DefaultCommand is the build command run inside every unit.
var DefaultCommand = []string{"idf.py", "build"}

// DefaultExclude lists path fragments that never contain buildable units:
// vendored components, stale build trees, and a third-party library whose
// examples need hardware-specific setup.
var DefaultExclude = []string{
	"managed_components",
	"build",
	"ESP32-HUB75-MatrixPanel-I2S-DMA",
}

// DefaultJobs returns the compile-job count used when none is configured.
func DefaultJobs() int {
	return max(1, runtime.NumCPU())
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyDiscoveryDefaults(cfg)
	applyExecutionDefaults(cfg)
	applyPrerequisiteDefaults(cfg)
	if cfg.Reports == nil {
		cfg.Reports = &ReportsConfig{}
	}
}

func applyDiscoveryDefaults(cfg *Config) {
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	if cfg.Container == "" {
		cfg.Container = DefaultContainer
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	// A nil list means "not configured"; an explicit empty list disables exclusion.
	if cfg.Exclude == nil {
		cfg.Exclude = append([]string(nil), DefaultExclude...)
	}
}

func applyExecutionDefaults(cfg *Config) {
	if cfg.BuildDir == "" {
		cfg.BuildDir = DefaultBuildDir
	}
	if len(cfg.Command) == 0 {
		cfg.Command = append([]string(nil), DefaultCommand...)
	}
	if cfg.JobsEnv == "" {
		cfg.JobsEnv = DefaultJobsEnv
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = DefaultJobs()
	}
	if cfg.Parallel == 0 {
		cfg.Parallel = DefaultParallel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.GracePeriod == nil {
		grace := DefaultGracePeriod
		cfg.GracePeriod = &grace
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
	if cfg.Naming == "" {
		cfg.Naming = DefaultNaming
	}
}

func applyPrerequisiteDefaults(cfg *Config) {
	if cfg.Prerequisites == nil {
		cfg.Prerequisites = &PrerequisitesConfig{}
	}
	if cfg.Prerequisites.Env == nil {
		cfg.Prerequisites.Env = []string{DefaultToolEnvVar}
	}
	if cfg.Prerequisites.VersionArgs == nil {
		cfg.Prerequisites.VersionArgs = []string{"--version"}
	}
}
