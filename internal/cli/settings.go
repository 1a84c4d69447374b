package cli

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/AndreyAkinshin/buildall/internal/config"
	buildallerrors "github.com/AndreyAkinshin/buildall/internal/errors"
)

// settings is the fully resolved configuration of one run.
type settings struct {
	root    string
	cfgPath string // Empty when no configuration file was used
	cfg     *config.Config
}

// resolveSettings merges defaults, the configuration file, and command-line
// flags, in increasing order of precedence.
func resolveSettings(c *CLI) (*settings, []string, error) {
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return nil, nil, buildallerrors.Wrap(err, "cannot resolve root directory")
	}
	s := &settings{root: root}

	path := c.Config
	if path == "" {
		path, _ = config.Find(root)
	}

	var warnings []string
	if path != "" {
		cfg, w, err := config.LoadAndValidate(path)
		if err != nil {
			return nil, w, configError(err)
		}
		s.cfg, s.cfgPath, warnings = cfg, path, w
	} else {
		s.cfg = config.Default()
	}

	applyFlags(s.cfg, c)
	if err := config.Validate(s.cfg); err != nil {
		return nil, warnings, configError(err)
	}

	s.cfg.LogDir = s.resolve(s.cfg.LogDir)
	if s.cfg.EnvFile != "" && c.EnvFile == "" {
		s.cfg.EnvFile = s.resolve(s.cfg.EnvFile)
	}
	if s.cfg.Reports.Metrics != "" && c.MetricsFile == "" {
		s.cfg.Reports.Metrics = s.resolve(s.cfg.Reports.Metrics)
	}
	return s, warnings, nil
}

// applyFlags overrides configuration values with the flags that were given.
func applyFlags(cfg *config.Config, c *CLI) {
	if c.Jobs != nil {
		cfg.Jobs = *c.Jobs
	}
	if c.Parallel != nil {
		cfg.Parallel = *c.Parallel
	}
	if c.Timeout != nil {
		cfg.Timeout = *c.Timeout
	}
	if c.EnvFile != "" {
		cfg.EnvFile = c.EnvFile
	}
	if c.JSONReport {
		cfg.Reports.JSON = true
	}
	if c.HTMLReport {
		cfg.Reports.HTML = true
	}
	if c.MetricsFile != "" {
		cfg.Reports.Metrics = c.MetricsFile
	}
	if c.SkipChecks {
		cfg.Prerequisites.Skip = true
	}
}

// resolve makes a configured path absolute relative to the scanned root.
func (s *settings) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func (s *settings) timeout() time.Duration {
	return time.Duration(s.cfg.Timeout) * time.Second
}

func (s *settings) gracePeriod() time.Duration {
	return time.Duration(*s.cfg.GracePeriod) * time.Second
}

func configError(err error) error {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return buildallerrors.Validation(verr.Field, verr.Message)
	}
	return buildallerrors.Config(err.Error())
}
