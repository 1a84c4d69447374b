// Package scheduler runs the builds of many units, either one at a time or
// through a bounded worker pool, and collects their outcomes.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// Builder builds a single unit. *executor.Executor satisfies it.
type Builder interface {
	Build(ctx context.Context, u unit.Unit) unit.Outcome
}

// ProgressFunc is called once per finished unit, from a single goroutine,
// with the number of finished units so far.
type ProgressFunc func(done, total int, o unit.Outcome)

// Options configures a scheduling run.
type Options struct {
	Concurrency int               // Maximum builds in flight; values below 1 mean 1
	OnStart     func(u unit.Unit) // Optional
	OnComplete  ProgressFunc      // Optional
}

// Scheduler dispatches units to a Builder.
type Scheduler struct {
	builder Builder
	opts    Options
	logger  *slog.Logger
}

// New creates a Scheduler.
func New(builder Builder, opts Options, logger *slog.Logger) *Scheduler {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{builder: builder, opts: opts, logger: logger}
}

// Run builds every unit and returns one outcome per unit, sorted by display
// name. Canceling ctx stops dispatching: builds already running finish
// normally and units never started are reported as skipped.
func (s *Scheduler) Run(ctx context.Context, units []unit.Unit) []unit.Outcome {
	var outcomes []unit.Outcome
	if s.opts.Concurrency == 1 || len(units) <= 1 {
		outcomes = s.runSequential(ctx, units)
	} else {
		outcomes = s.runParallel(ctx, units)
	}
	unit.SortOutcomes(outcomes)
	return outcomes
}

// runSequential builds units one at a time in order.
func (s *Scheduler) runSequential(ctx context.Context, units []unit.Unit) []unit.Outcome {
	outcomes := make([]unit.Outcome, 0, len(units))
	for i, u := range units {
		// Stop dispatching once the run is interrupted; the rest are skipped.
		if ctx.Err() != nil {
			outcomes = append(outcomes, s.skipAll(units[i:])...)
			break
		}
		o := s.build(ctx, u)
		outcomes = append(outcomes, o)
		s.complete(len(outcomes), len(units), o)
	}
	return outcomes
}

// runParallel builds units concurrently, at most Concurrency at a time.
//
// A weighted semaphore bounds in-flight builds. Workers hand their outcomes
// to a single collector goroutine, so the progress callback never runs
// concurrently with itself.
func (s *Scheduler) runParallel(ctx context.Context, units []unit.Unit) []unit.Outcome {
	sem := semaphore.NewWeighted(int64(s.opts.Concurrency))
	results := make(chan unit.Outcome)
	collected := make(chan []unit.Outcome)

	go func() {
		outcomes := make([]unit.Outcome, 0, len(units))
		for o := range results {
			outcomes = append(outcomes, o)
			s.complete(len(outcomes), len(units), o)
		}
		collected <- outcomes
	}()

	var g errgroup.Group
	var skipped []unit.Unit
	for i, u := range units {
		// Acquire can succeed on an already canceled context, so check again.
		if err := sem.Acquire(ctx, 1); err != nil || ctx.Err() != nil {
			if err == nil {
				sem.Release(1)
			}
			skipped = units[i:]
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			results <- s.build(ctx, u)
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	outcomes := <-collected
	return append(outcomes, s.skipAll(skipped)...)
}

// build runs one unit. In-flight builds are not interrupted by run-level
// cancellation; only their own timeout stops them.
func (s *Scheduler) build(ctx context.Context, u unit.Unit) (o unit.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("builder panicked", "unit", u.Rel, "panic", r)
			o = unit.InvocationFailure(u, 0, "", fmt.Errorf("build panicked: %v", r))
		}
	}()
	if s.opts.OnStart != nil {
		s.opts.OnStart(u)
	}
	return s.builder.Build(context.WithoutCancel(ctx), u)
}

// complete reports progress. A panicking callback is logged and ignored so
// it cannot lose outcomes.
func (s *Scheduler) complete(done, total int, o unit.Outcome) {
	if s.opts.OnComplete == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("progress callback panicked", "unit", o.Unit.Rel, "panic", r)
		}
	}()
	s.opts.OnComplete(done, total, o)
}

func (s *Scheduler) skipAll(units []unit.Unit) []unit.Outcome {
	if len(units) == 0 {
		return nil
	}
	s.logger.Warn("run interrupted, skipping remaining units", "count", len(units))
	outcomes := make([]unit.Outcome, len(units))
	for i, u := range units {
		outcomes[i] = unit.Skipped(u)
	}
	return outcomes
}
