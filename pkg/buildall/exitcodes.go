// Package buildall provides public constants for tools that drive the
// buildall CLI from scripts or CI pipelines.
package buildall

// Exit codes returned by the buildall CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every discovered unit built, or none were found.
	ExitSuccess = 0

	// ExitFailure indicates at least one unit failed, timed out, or could not be started.
	ExitFailure = 1

	// ExitConfigError indicates invalid flags or an invalid configuration file.
	ExitConfigError = 2

	// ExitEnvError indicates the build toolchain is missing or not working.
	ExitEnvError = 3
)
