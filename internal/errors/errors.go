// Package errors provides structured error types and exit codes for buildall.
//
// Only run-level failures are represented here: configuration problems,
// unreadable discovery roots, and missing toolchains. Failures of individual
// build units are never returned as Go errors; they are recorded in the
// unit's outcome and surfaced by the reporter.
package errors

import (
	"errors"
	"fmt"

	"github.com/AndreyAkinshin/buildall/pkg/buildall"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = buildall.ExitSuccess     // Every unit built
	ExitRuntimeError     = buildall.ExitFailure     // At least one unit failed, or a runtime fault
	ExitConfigError      = buildall.ExitConfigError // Invalid flags or configuration file
	ExitEnvironmentError = buildall.ExitEnvError    // Build toolchain unreachable
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindDiscovery
	KindEnvironment
)

// BuildallError is the base error type for buildall.
type BuildallError struct {
	Kind    ErrorKind
	Message string
	Unit    string // Unit display name if applicable
	Cause   error  // Underlying error
}

func (e *BuildallError) Error() string {
	msg := e.Message
	if e.Unit != "" {
		msg = fmt.Sprintf("[%s] %s", e.Unit, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *BuildallError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *BuildallError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *BuildallError {
	return &BuildallError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *BuildallError {
	return &BuildallError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *BuildallError {
	return Config(fmt.Sprintf(format, args...))
}

// Validation creates a validation error for a single option or field.
func Validation(field, message string) *BuildallError {
	return &BuildallError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// Discovery wraps a failure to enumerate build units under root.
func Discovery(root string, cause error) *BuildallError {
	return &BuildallError{
		Kind:    KindDiscovery,
		Message: fmt.Sprintf("cannot discover build units in %s", root),
		Cause:   cause,
	}
}

// Environment creates a new environment error.
func Environment(message string) *BuildallError {
	return &BuildallError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *BuildallError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *BuildallError {
	return &BuildallError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var be *BuildallError
	if errors.As(err, &be) {
		return be.ExitCode()
	}
	return ExitRuntimeError
}
