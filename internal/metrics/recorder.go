// Package metrics exposes run statistics to Prometheus. A run writes them
// once, at the end, in the node_exporter textfile format.
package metrics

import "time"

// OutcomeLabel enumerates unit outcome categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess    OutcomeLabel = "success"
	OutcomeFailed     OutcomeLabel = "failed"
	OutcomeTimeout    OutcomeLabel = "timeout"
	OutcomeInvocation OutcomeLabel = "invocation"
	OutcomeSkipped    OutcomeLabel = "skipped"
)

// Recorder defines observability hooks for a build run.
type Recorder interface {
	ObserveUnit(unit string, outcome OutcomeLabel, d time.Duration)
	ObserveRun(wallClock time.Duration, efficiency float64)
	SetConcurrency(units, jobs int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveUnit(string, OutcomeLabel, time.Duration) {}
func (NoopRecorder) ObserveRun(time.Duration, float64)               {}
func (NoopRecorder) SetConcurrency(int, int)                         {}
