package unit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FailureKind classifies why a unit did not build.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureExit       FailureKind = "exit"       // Build command exited non-zero
	FailureTimeout    FailureKind = "timeout"    // Build exceeded its timeout and was killed
	FailureInvocation FailureKind = "invocation" // Build could not be started or its log could not be written
	FailureSkipped    FailureKind = "skipped"    // Run was interrupted before the unit was dispatched
)

// NoExitCode marks outcomes whose process never reported an exit status.
const NoExitCode = -1

// Outcome is the immutable record of one unit's build attempt.
type Outcome struct {
	Unit     Unit
	Success  bool
	Duration time.Duration
	LogPath  string // Empty when no log was kept
	Err      string // Empty on success
	Kind     FailureKind
	ExitCode int
}

// Succeeded records a build that exited 0.
func Succeeded(u Unit, d time.Duration, logPath string) Outcome {
	return Outcome{Unit: u, Success: true, Duration: d, LogPath: logPath, ExitCode: 0}
}

// ExitFailure records a build that exited with a non-zero code.
func ExitFailure(u Unit, d time.Duration, logPath string, code int) Outcome {
	return Outcome{
		Unit:     u,
		Duration: d,
		LogPath:  logPath,
		Err:      fmt.Sprintf("build failed with exit code %d", code),
		Kind:     FailureExit,
		ExitCode: code,
	}
}

// TimedOut records a build that was killed after exceeding timeout.
func TimedOut(u Unit, d time.Duration, logPath string, timeout time.Duration) Outcome {
	return Outcome{
		Unit:     u,
		Duration: d,
		LogPath:  logPath,
		Err:      fmt.Sprintf("build timeout after %ss", FormatSeconds(timeout)),
		Kind:     FailureTimeout,
		ExitCode: NoExitCode,
	}
}

// InvocationFailure records a build that could not run at all.
func InvocationFailure(u Unit, d time.Duration, logPath string, err error) Outcome {
	return Outcome{
		Unit:     u,
		Duration: d,
		LogPath:  logPath,
		Err:      err.Error(),
		Kind:     FailureInvocation,
		ExitCode: NoExitCode,
	}
}

// Skipped records a unit that was never dispatched because the run was interrupted.
func Skipped(u Unit) Outcome {
	return Outcome{
		Unit:     u,
		Err:      "build skipped: run interrupted",
		Kind:     FailureSkipped,
		ExitCode: NoExitCode,
	}
}

// SortOutcomes orders outcomes by unit display name.
func SortOutcomes(outcomes []Outcome) {
	slices.SortStableFunc(outcomes, func(a, b Outcome) int {
		return strings.Compare(a.Unit.Rel, b.Unit.Rel)
	})
}

// FormatSeconds renders d in seconds without trailing zeros ("300", "0.25").
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
