// Package prereq verifies the build toolchain is usable before any unit runs.
package prereq

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	buildallerrors "github.com/AndreyAkinshin/buildall/internal/errors"
)

// DefaultTimeout bounds the version probe.
const DefaultTimeout = 10 * time.Second

// Options selects what to check.
type Options struct {
	Tool        string        // Executable that must respond to VersionArgs
	VersionArgs []string      // Arguments that make Tool print its version
	Env         []string      // Variables that must be set and non-empty
	Timeout     time.Duration // Zero means DefaultTimeout
}

// Status describes a working toolchain.
type Status struct {
	Tool    string
	Path    string
	Version string            // First line of the version output
	Env     map[string]string // Values of the required variables
}

// Check verifies every required variable is set and that the tool runs.
// Failures are environment errors, which abort the run before any build.
func Check(ctx context.Context, opts Options) (Status, error) {
	status := Status{Tool: opts.Tool, Env: make(map[string]string, len(opts.Env))}

	for _, name := range opts.Env {
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			return status, buildallerrors.Environmentf("%s environment variable is not set", name)
		}
		status.Env[name] = value
	}

	path, err := exec.LookPath(opts.Tool)
	if err != nil {
		return status, buildallerrors.Environmentf("%s command not found", opts.Tool)
	}
	status.Path = path

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, opts.VersionArgs...).Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return status, buildallerrors.Environmentf("%s did not respond within %s", opts.Tool, timeout)
		}
		return status, buildallerrors.Environmentf("%s is not working: %v", opts.Tool, err)
	}

	version := strings.TrimSpace(string(out))
	if first, _, found := strings.Cut(version, "\n"); found {
		version = strings.TrimSpace(first)
	}
	status.Version = version
	return status, nil
}
