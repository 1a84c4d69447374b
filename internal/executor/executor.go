// Package executor builds a single unit: it runs the build command in the
// unit directory with a bounded run time and captures all output in a
// per-unit log file.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// Options configures how every unit is built.
type Options struct {
	Command     []string          // Build command argv; run without a shell
	Jobs        int               // Compile-job count exported through JobsEnv
	JobsEnv     string            // Variable that carries Jobs, e.g. CMAKE_BUILD_PARALLEL_LEVEL
	Env         map[string]string // Extra variables layered over the inherited environment
	Timeout     time.Duration     // Per-unit wall-clock limit
	GracePeriod time.Duration     // Time between SIGTERM and SIGKILL once the timeout fires
	Clean       bool              // Remove BuildDir before building
	BuildDir    string            // Build output directory inside each unit
	KeepLogs    bool              // Keep logs of successful builds
	LogDir      string            // Directory that receives per-unit logs
	Namer       unit.Namer
}

// Executor runs builds. It is safe for concurrent use; each Build call
// touches only its own unit directory and log file.
type Executor struct {
	fs     afero.Fs
	opts   Options
	logger *slog.Logger
}

// New creates an Executor. Logs and clean-up go through fs; the build
// process itself always runs on the real file system.
func New(fs afero.Fs, opts Options, logger *slog.Logger) *Executor {
	if opts.Namer == nil {
		opts.Namer = unit.ComponentNamer{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{fs: fs, opts: opts, logger: logger}
}

// LogPath returns where the log of u is written.
func (e *Executor) LogPath(u unit.Unit) string {
	return filepath.Join(e.opts.LogDir, e.opts.Namer.LogName(u))
}

// Build runs the build command for u and returns its outcome. Build never
// returns an error: every failure, including a panic inside Build, is
// reported through the outcome.
func (e *Executor) Build(ctx context.Context, u unit.Unit) (o unit.Outcome) {
	logPath := e.LogPath(u)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("build panicked", "unit", u.Rel, "panic", r)
			o = unit.InvocationFailure(u, time.Since(start), logPath, fmt.Errorf("build panicked: %v", r))
		}
	}()

	if e.opts.Clean {
		buildDir := filepath.Join(u.Dir, e.opts.BuildDir)
		e.logger.Debug("cleaning build directory", "unit", u.Rel, "dir", buildDir)
		if err := e.fs.RemoveAll(buildDir); err != nil {
			return unit.InvocationFailure(u, time.Since(start), "", fmt.Errorf("cannot clean %s: %w", buildDir, err))
		}
	}

	if err := e.fs.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return unit.InvocationFailure(u, time.Since(start), "", fmt.Errorf("cannot create log directory: %w", err))
	}
	logFile, err := e.fs.Create(logPath)
	if err != nil {
		return unit.InvocationFailure(u, time.Since(start), "", fmt.Errorf("cannot create build log: %w", err))
	}

	runCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.opts.Command[0], e.opts.Command[1:]...)
	cmd.Dir = u.Dir
	cmd.Env = e.environ()
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	configureProcessGroup(cmd, e.opts.GracePeriod)
	cmd.WaitDelay = e.opts.GracePeriod

	e.logger.Debug("starting build", "unit", u.Rel, "command", e.opts.Command, "log", logPath)

	start = time.Now()
	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return unit.InvocationFailure(u, time.Since(start), logPath, fmt.Errorf("cannot start %s: %w", e.opts.Command[0], err))
	}
	waitErr := cmd.Wait()
	duration := time.Since(start)

	if runCtx.Err() != nil {
		killProcessGroup(cmd)
	}
	closeErr := logFile.Close()

	return e.classify(ctx, runCtx, u, duration, logPath, cmd, waitErr, closeErr)
}

func (e *Executor) classify(ctx, runCtx context.Context, u unit.Unit, d time.Duration, logPath string, cmd *exec.Cmd, waitErr, closeErr error) unit.Outcome {
	switch {
	case ctx.Err() != nil && waitErr != nil:
		return unit.InvocationFailure(u, d, logPath, fmt.Errorf("build interrupted: %w", context.Cause(ctx)))
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && waitErr != nil:
		e.logger.Warn("build timed out", "unit", u.Rel, "timeout", e.opts.Timeout)
		return unit.TimedOut(u, d, logPath, e.opts.Timeout)
	}

	// A process that exited cleanly but left descendants holding the log
	// open past WaitDelay still counts as a successful build.
	if waitErr != nil && !(errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState.Success()) {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return unit.ExitFailure(u, d, logPath, exitErr.ExitCode())
		}
		return unit.InvocationFailure(u, d, logPath, waitErr)
	}

	if closeErr != nil {
		return unit.InvocationFailure(u, d, logPath, fmt.Errorf("cannot write build log: %w", closeErr))
	}

	if e.opts.KeepLogs {
		return unit.Succeeded(u, d, logPath)
	}
	if err := e.fs.Remove(logPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("cannot remove build log", "path", logPath, "error", err)
		return unit.Succeeded(u, d, logPath)
	}
	return unit.Succeeded(u, d, "")
}

// environ returns the inherited environment with configured variables and
// the job count layered on top. Later entries win.
func (e *Executor) environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(e.opts.Env))
	for k := range e.opts.Env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		env = append(env, k+"="+e.opts.Env[k])
	}
	if e.opts.JobsEnv != "" && e.opts.Jobs > 0 {
		env = append(env, e.opts.JobsEnv+"="+strconv.Itoa(e.opts.Jobs))
	}
	return env
}
