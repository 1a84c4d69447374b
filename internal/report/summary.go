// Package report turns the outcomes of a run into a console summary, a JSON
// document, an HTML page, and the process exit status.
package report

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	buildallerrors "github.com/AndreyAkinshin/buildall/internal/errors"
	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// TimestampLayout is the layout of report timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Default report file names, written to the scanned root.
const (
	JSONFileName = "build_report.json"
	HTMLFileName = "build_report.html"
)

// Summary holds aggregate statistics derived from a set of outcomes.
type Summary struct {
	Total         int
	Successful    int
	Failed        int
	TotalDuration time.Duration // Sum of per-unit durations
	WallClock     time.Duration // Observed duration of the whole run
}

// Summarize computes statistics over outcomes.
func Summarize(outcomes []unit.Outcome, wallClock time.Duration) Summary {
	s := Summary{Total: len(outcomes), WallClock: wallClock}
	for _, o := range outcomes {
		if o.Success {
			s.Successful++
		} else {
			s.Failed++
		}
		s.TotalDuration += o.Duration
	}
	return s
}

// Efficiency returns summed unit time as a percentage of wall-clock time.
// It exceeds 100 when units overlap and is reported unclamped. Zero
// wall-clock time yields 0.
func (s Summary) Efficiency() float64 {
	if s.WallClock <= 0 {
		return 0
	}
	return s.TotalDuration.Seconds() / s.WallClock.Seconds() * 100
}

// ExitCode returns the process exit status for the run: success only when
// no unit failed. A run with no units succeeds.
func (s Summary) ExitCode() int {
	if s.Failed > 0 {
		return buildallerrors.ExitRuntimeError
	}
	return buildallerrors.ExitSuccess
}

// Report is a completed run, ready to be rendered.
type Report struct {
	RunID       string
	Started     time.Time
	Concurrency int
	Jobs        int
	Summary     Summary
	Outcomes    []unit.Outcome // Sorted by unit display name
}

// New builds a report from outcomes in any order. The outcomes slice is
// copied, so callers may keep using it.
func New(outcomes []unit.Outcome, started time.Time, wallClock time.Duration, concurrency, jobs int) *Report {
	sorted := slices.Clone(outcomes)
	unit.SortOutcomes(sorted)
	return &Report{
		RunID:       uuid.NewString(),
		Started:     started,
		Concurrency: concurrency,
		Jobs:        jobs,
		Summary:     Summarize(sorted, wallClock),
		Outcomes:    sorted,
	}
}

// Failed returns the failed outcomes in report order.
func (r *Report) Failed() []unit.Outcome {
	var failed []unit.Outcome
	for _, o := range r.Outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}
	return failed
}

var upper = cases.Upper(language.English)

// statusWords names each failure kind in the console and HTML.
var statusWords = map[unit.FailureKind]string{
	unit.FailureNone:       "success",
	unit.FailureExit:       "failed",
	unit.FailureTimeout:    "timeout",
	unit.FailureInvocation: "error",
	unit.FailureSkipped:    "skipped",
}

// Status returns the upper-case status label of an outcome, e.g. "TIMEOUT".
func Status(o unit.Outcome) string {
	if o.Success {
		return upper.String(statusWords[unit.FailureNone])
	}
	word, ok := statusWords[o.Kind]
	if !ok || o.Kind == unit.FailureNone {
		word = statusWords[unit.FailureExit]
	}
	return upper.String(word)
}

// Seconds formats d with one decimal, e.g. "12.3s".
func Seconds(d time.Duration) string {
	return formatFloat1(d.Seconds()) + "s"
}
