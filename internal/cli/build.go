package cli

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/buildall/internal/config"
	"github.com/AndreyAkinshin/buildall/internal/discovery"
	buildallerrors "github.com/AndreyAkinshin/buildall/internal/errors"
	"github.com/AndreyAkinshin/buildall/internal/executor"
	"github.com/AndreyAkinshin/buildall/internal/housekeeping"
	"github.com/AndreyAkinshin/buildall/internal/metrics"
	"github.com/AndreyAkinshin/buildall/internal/output"
	"github.com/AndreyAkinshin/buildall/internal/prereq"
	"github.com/AndreyAkinshin/buildall/internal/report"
	"github.com/AndreyAkinshin/buildall/internal/scheduler"
	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// logTailLines is how much of a failed log is echoed in verbose mode.
const logTailLines = 10

// app runs one build of every discovered unit.
type app struct {
	cli      *CLI
	out      *output.Writer
	stderr   io.Writer
	fs       afero.Fs
	logger   *slog.Logger
	recorder metrics.Recorder
	prom     *metrics.PrometheusRecorder // Nil unless a metrics file was requested
}

func (a *app) run(ctx context.Context) int {
	a.out.SetQuiet(a.cli.Quiet)
	if a.cli.NoColor {
		a.out.SetColor(false)
	}
	a.setupLogging()

	s, warnings, err := resolveSettings(a.cli)
	for _, w := range warnings {
		a.out.Warning("%s", w)
	}
	if err != nil {
		return a.fail(err)
	}
	cfg := s.cfg

	a.out.Section("buildall " + Version)
	a.out.Info("Root: %s", s.root)
	if s.cfgPath != "" {
		a.out.Info("Config: %s", s.cfgPath)
	}

	if err := a.checkPrerequisites(ctx, cfg); err != nil {
		return a.fail(err)
	}

	units, err := a.discover(s)
	if err != nil {
		return a.fail(err)
	}
	if len(units) == 0 {
		a.out.WarningSimple("no build units found in %s", s.root)
		return buildallerrors.ExitSuccess
	}

	namer, _ := unit.NamerFor(cfg.Naming)
	env, err := executor.LoadEnv(cfg.EnvFile, cfg.Env)
	if err != nil {
		return a.fail(buildallerrors.Configf("env_file: %v", err))
	}

	builder := executor.New(a.fs, executor.Options{
		Command:     cfg.Command,
		Jobs:        cfg.Jobs,
		JobsEnv:     cfg.JobsEnv,
		Env:         env,
		Timeout:     s.timeout(),
		GracePeriod: s.gracePeriod(),
		Clean:       a.cli.Clean,
		BuildDir:    cfg.BuildDir,
		KeepLogs:    a.cli.Verbose,
		LogDir:      cfg.LogDir,
		Namer:       namer,
	}, a.logger)

	a.setupMetrics(cfg)

	sched := scheduler.New(builder, scheduler.Options{
		Concurrency: cfg.Parallel,
		OnStart: func(u unit.Unit) {
			a.out.UnitStart(namer.Label(u), u.Rel)
		},
		OnComplete: func(done, total int, o unit.Outcome) {
			a.progress(done, total, o, namer)
		},
	}, a.logger)

	if cfg.Parallel > 1 {
		a.out.Section("Building (" + plural(cfg.Parallel, "concurrent build") + ")")
	} else {
		a.out.Section("Building (sequential)")
	}

	started := time.Now()
	outcomes := sched.Run(ctx, units)
	wallClock := time.Since(started)

	r := report.New(outcomes, started, wallClock, cfg.Parallel, cfg.Jobs)
	a.recordRun(r)
	code := r.Summary.ExitCode()

	if err := a.writeReports(s, r); err != nil {
		a.out.ErrorPrefix("%v", err)
		code = buildallerrors.ExitRuntimeError
	}
	a.cleanLogs(cfg.LogDir, r)

	report.PrintSummary(a.out, r, namer)
	if ctx.Err() != nil {
		a.out.WarningSimple("run interrupted; units that had not started were skipped")
	}
	return code
}

// setupMetrics selects the Prometheus recorder when a metrics file is
// configured and the no-op recorder otherwise.
func (a *app) setupMetrics(cfg *config.Config) {
	a.recorder = metrics.NoopRecorder{}
	if cfg.Reports.Metrics != "" {
		a.prom = metrics.NewPrometheusRecorder(nil)
		a.recorder = a.prom
	}
	a.recorder.SetConcurrency(cfg.Parallel, cfg.Jobs)
}

// recordRun adds run-level statistics and the units the scheduler skipped,
// which never pass through the progress callback.
func (a *app) recordRun(r *report.Report) {
	for _, o := range r.Outcomes {
		if o.Kind == unit.FailureSkipped {
			a.recorder.ObserveUnit(o.Unit.Rel, metrics.LabelFor(o), o.Duration)
		}
	}
	a.recorder.ObserveRun(r.Summary.WallClock, r.Summary.Efficiency())
}

// setupLogging installs the diagnostic logger. Diagnostics go to stderr so
// they never mix with the summary on stdout.
func (a *app) setupLogging() {
	level := slog.LevelInfo
	switch {
	case a.cli.Verbose:
		level = slog.LevelDebug
	case a.cli.Quiet:
		level = slog.LevelError
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

func (a *app) checkPrerequisites(ctx context.Context, cfg *config.Config) error {
	if cfg.Prerequisites.Skip {
		a.logger.Debug("prerequisite check skipped")
		return nil
	}
	a.out.Section("Checking Prerequisites")
	status, err := prereq.Check(ctx, prereq.Options{
		Tool:        cfg.Command[0],
		VersionArgs: cfg.Prerequisites.VersionArgs,
		Env:         cfg.Prerequisites.Env,
	})
	if err != nil {
		return err
	}
	for _, name := range cfg.Prerequisites.Env {
		a.out.Success("✓ %s: %s", name, status.Env[name])
	}
	a.out.Success("✓ %s: %s", status.Tool, status.Version)
	a.out.Success("✓ Using %s per build", plural(cfg.Jobs, "compile job"))
	return nil
}

func (a *app) discover(s *settings) ([]unit.Unit, error) {
	a.out.Section("Discovering Build Units")
	d := discovery.New(a.fs, discovery.Options{
		Marker:    s.cfg.Marker,
		Container: s.cfg.Container,
		SourceDir: s.cfg.SourceDir,
		Exclude:   s.cfg.Exclude,
	}, a.logger)
	units, err := d.Discover(s.root)
	if err != nil {
		return nil, err
	}
	if len(units) > 0 {
		a.out.Info("Found %s:", plural(len(units), "build unit"))
		if !a.out.Quiet() {
			names := make([]string, len(units))
			for i, u := range units {
				names[i] = u.Rel
			}
			a.out.List(names)
		}
	}
	return units, nil
}

// progress reports one finished unit. Failures are always shown; verbose
// mode adds the tail of the failed log.
func (a *app) progress(done, total int, o unit.Outcome, namer unit.Namer) {
	a.recorder.ObserveUnit(o.Unit.Rel, metrics.LabelFor(o), o.Duration)

	label := namer.Label(o.Unit)
	duration := report.Seconds(o.Duration)
	if o.Success {
		a.out.UnitSuccess(done, total, label, duration)
		return
	}
	a.out.UnitFailed(done, total, label, report.Status(o), duration, o.Err, o.LogPath)
	if a.cli.Verbose && o.LogPath != "" {
		lines, err := executor.Tail(a.fs, o.LogPath, logTailLines)
		if err != nil {
			a.out.Errorln("    Could not read log file")
			return
		}
		a.out.LogTail(lines)
	}
}

// writeReports writes the requested report artifacts. All are attempted;
// the first error is returned.
func (a *app) writeReports(s *settings, r *report.Report) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if s.cfg.Reports.JSON {
		path := filepath.Join(s.root, report.JSONFileName)
		err := report.WriteJSON(a.fs, path, r)
		if err == nil {
			a.out.Info("JSON report saved to: %s", path)
		}
		keep(err)
	}
	if s.cfg.Reports.HTML {
		path := filepath.Join(s.root, report.HTMLFileName)
		err := report.WriteHTML(a.fs, path, r)
		if err == nil {
			a.out.Info("HTML report saved to: %s", path)
		}
		keep(err)
	}
	if a.prom != nil {
		path := s.cfg.Reports.Metrics
		err := a.prom.WriteTextfile(path)
		if err == nil {
			a.out.Info("Metrics saved to: %s", path)
		}
		keep(err)
	}
	return firstErr
}

// cleanLogs removes logs this run does not report, such as empty success
// logs and leftovers from earlier runs.
func (a *app) cleanLogs(dir string, r *report.Report) {
	keep := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		keep = append(keep, o.LogPath)
	}
	removed, err := housekeeping.Clean(a.fs, dir, keep)
	if err != nil {
		a.logger.Warn("log housekeeping failed", "error", err)
	}
	if len(removed) > 0 {
		a.logger.Debug("removed build logs", "files", strings.Join(removed, ", "))
	}
}
