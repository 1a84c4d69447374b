package config

import (
	"fmt"

	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied. It runs again after
// command-line overrides are merged, so it repeats the numeric bounds the
// schema already enforces for the file.
func Validate(cfg *Config) error {
	if err := validatePositive("jobs", cfg.Jobs); err != nil {
		return err
	}
	if err := validatePositive("parallel", cfg.Parallel); err != nil {
		return err
	}
	if err := validatePositive("timeout", cfg.Timeout); err != nil {
		return err
	}
	if cfg.GracePeriod != nil && *cfg.GracePeriod < 0 {
		return &ValidationError{Field: "grace_period", Message: "must not be negative"}
	}
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return &ValidationError{Field: "command", Message: "must name an executable"}
	}
	if _, ok := unit.NamerFor(cfg.Naming); !ok {
		return &ValidationError{Field: "naming", Message: fmt.Sprintf("unknown strategy %q (want %q or %q)", cfg.Naming, unit.NamingComponent, unit.NamingPath)}
	}
	return nil
}

func validatePositive(field string, v int) error {
	if v < 1 {
		return &ValidationError{Field: field, Message: "must be at least 1"}
	}
	return nil
}
