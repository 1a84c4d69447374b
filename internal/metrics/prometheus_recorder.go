package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "buildall"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	unitDuration    *prom.GaugeVec
	unitOutcomes    *prom.CounterVec
	unitDurations   prom.Histogram
	runDuration     prom.Gauge
	runEfficiency   prom.Gauge
	unitConcurrency prom.Gauge
	compileJobs     prom.Gauge
	lastRun         prom.Gauge
}

// NewPrometheusRecorder constructs and registers the run metrics in reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		unitDuration: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "unit_duration_seconds",
			Help:      "Build duration of each unit in the last run",
		}, []string{"unit", "outcome"}),
		unitOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "unit_outcomes_total",
			Help:      "Unit outcomes by final status",
		}, []string{"outcome"}),
		unitDurations: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "unit_build_seconds",
			Help:      "Distribution of unit build durations",
			Buckets:   prom.ExponentialBuckets(1, 2, 10),
		}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_wall_clock_seconds",
			Help:      "Wall-clock duration of the last run",
		}),
		runEfficiency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_efficiency_percent",
			Help:      "Summed unit time as a percentage of wall-clock time",
		}),
		unitConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "unit_concurrency",
			Help:      "Maximum number of units built at once",
		}),
		compileJobs: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "compile_jobs",
			Help:      "Compile jobs requested from each build",
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	reg.MustRegister(pr.unitDuration, pr.unitOutcomes, pr.unitDurations, pr.runDuration,
		pr.runEfficiency, pr.unitConcurrency, pr.compileJobs, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveUnit(unit string, outcome OutcomeLabel, d time.Duration) {
	if p == nil {
		return
	}
	p.unitDuration.WithLabelValues(unit, string(outcome)).Set(d.Seconds())
	p.unitOutcomes.WithLabelValues(string(outcome)).Inc()
	if outcome != OutcomeSkipped {
		p.unitDurations.Observe(d.Seconds())
	}
}

func (p *PrometheusRecorder) ObserveRun(wallClock time.Duration, efficiency float64) {
	if p == nil {
		return
	}
	p.runDuration.Set(wallClock.Seconds())
	p.runEfficiency.Set(efficiency)
	p.lastRun.SetToCurrentTime()
}

func (p *PrometheusRecorder) SetConcurrency(units, jobs int) {
	if p == nil {
		return
	}
	p.unitConcurrency.Set(float64(units))
	p.compileJobs.Set(float64(jobs))
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, replacing the file atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
