// Package config provides configuration loading and validation for .buildall.yaml.
package config

// Config represents the complete .buildall.yaml configuration.
// Zero values mean "use the default"; see applyDefaults.
type Config struct {
	Marker        string               `yaml:"marker,omitempty"`
	Container     string               `yaml:"container,omitempty"`
	SourceDir     string               `yaml:"source_dir,omitempty"`
	BuildDir      string               `yaml:"build_dir,omitempty"`
	Exclude       []string             `yaml:"exclude,omitempty"`
	Command       []string             `yaml:"command,omitempty"`
	JobsEnv       string               `yaml:"jobs_env,omitempty"`
	Env           map[string]string    `yaml:"env,omitempty"`
	EnvFile       string               `yaml:"env_file,omitempty"`
	Jobs          int                  `yaml:"jobs,omitempty"`
	Parallel      int                  `yaml:"parallel,omitempty"`
	Timeout       int                  `yaml:"timeout,omitempty"`      // Seconds
	GracePeriod   *int                 `yaml:"grace_period,omitempty"` // Seconds; nil means default, 0 kills immediately
	LogDir        string               `yaml:"log_dir,omitempty"`
	Naming        string               `yaml:"naming,omitempty"`
	Prerequisites *PrerequisitesConfig `yaml:"prerequisites,omitempty"`
	Reports       *ReportsConfig       `yaml:"reports,omitempty"`
}

// PrerequisitesConfig configures the toolchain check performed before any build.
type PrerequisitesConfig struct {
	Env         []string `yaml:"env,omitempty"`          // Variables that must be set
	VersionArgs []string `yaml:"version_args,omitempty"` // Arguments that make the build tool print its version
	Skip        bool     `yaml:"skip,omitempty"`
}

// ReportsConfig selects the report artifacts written after a run.
type ReportsConfig struct {
	JSON    bool   `yaml:"json,omitempty"`
	HTML    bool   `yaml:"html,omitempty"`
	Metrics string `yaml:"metrics,omitempty"` // Prometheus textfile path; empty disables
}
