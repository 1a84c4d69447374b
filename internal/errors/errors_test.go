package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBuildallError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuildallError
		expected string
	}{
		{
			name:     "message only",
			err:      &BuildallError{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with unit",
			err:      &BuildallError{Unit: "gps/examples/basic", Message: "cannot clean"},
			expected: "[gps/examples/basic] cannot clean",
		},
		{
			name:     "with cause",
			err:      &BuildallError{Message: "read config", Cause: errors.New("permission denied")},
			expected: "read config: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildallError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &BuildallError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &BuildallError{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestBuildallError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitRuntimeError},
		{"config", KindConfig, ExitConfigError},
		{"validation", KindValidation, ExitConfigError},
		{"discovery", KindDiscovery, ExitRuntimeError},
		{"environment", KindEnvironment, ExitEnvironmentError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &BuildallError{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	err := Validation("--jobs", "must be at least 1")

	if err.Kind != KindValidation {
		t.Errorf("Kind = %v, want %v", err.Kind, KindValidation)
	}
	if err.Error() != "--jobs: must be at least 1" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.ExitCode() != ExitConfigError {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitConfigError)
	}
}

func TestDiscovery(t *testing.T) {
	cause := errors.New("no such file or directory")
	err := Discovery("/repo", cause)

	if !strings.Contains(err.Error(), "/repo") {
		t.Errorf("Error() = %q, want root path", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.ExitCode() != ExitRuntimeError {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitRuntimeError)
	}
}

func TestEnvironmentf(t *testing.T) {
	err := Environmentf("%s is not set", "IDF_PATH")

	if err.Kind != KindEnvironment {
		t.Errorf("Kind = %v, want %v", err.Kind, KindEnvironment)
	}
	if err.Message != "IDF_PATH is not set" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestConfigf(t *testing.T) {
	err := Configf("field %q: %s", "timeout", "must be a number")

	if err.Kind != KindConfig {
		t.Errorf("Kind = %v, want %v", err.Kind, KindConfig)
	}
	expected := `field "timeout": must be a number`
	if err.Message != expected {
		t.Errorf("Message = %q, want %q", err.Message, expected)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitRuntimeError},
		{"config", Config("bad"), ExitConfigError},
		{"environment", Environment("missing"), ExitEnvironmentError},
		{"wrapped config", fmt.Errorf("load: %w", Config("bad")), ExitConfigError},
		{"wrap helper", Wrap(errors.New("io"), "write report"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}
