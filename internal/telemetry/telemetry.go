// Package telemetry records analysis runs as Prometheus metrics. A Registry
// is passed to the engine as its Observer and can be written out in the
// node-exporter textfile format after a run.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Veraticus/ledgerlens/internal/analysis"
)

const namespace = "ledgerlens"

// Registry holds the collectors for one process.
type Registry struct {
	reg             *prometheus.Registry
	runs            *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	runDuration     prometheus.Histogram
	recommendations prometheus.Gauge
	months          prometheus.Gauge
	impactMid       prometheus.Gauge
	lastRun         prometheus.Gauge
}

// Ensure Registry implements analysis.Observer.
var _ analysis.Observer = (*Registry)(nil)

// NewRegistry creates a registry with its own collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed analysis runs by vertical and mode.",
		}, []string{"vertical", "mode"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each analysis stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"stage"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full analysis run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		recommendations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_recommendations",
			Help:      "Recommendations produced by the most recent run.",
		}),
		months: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_months",
			Help:      "Months of data available to the most recent run.",
		}),
		impactMid: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_impact_mid",
			Help:      "Sum of mid impact estimates in the most recent run.",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished.",
		}),
	}
}

// ObserveStage implements analysis.Observer.
func (r *Registry) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveRun implements analysis.Observer.
func (r *Registry) ObserveRun(report *analysis.Report, d time.Duration) {
	if report == nil {
		return
	}
	r.runs.WithLabelValues(report.Vertical, string(report.Mode.Mode)).Inc()
	r.runDuration.Observe(d.Seconds())
	r.recommendations.Set(float64(len(report.Recommendations)))
	r.months.Set(float64(report.Mode.MonthsAvailable))
	_, mid, _ := report.TotalImpact()
	r.impactMid.Set(mid)
	r.lastRun.Set(float64(report.GeneratedAt.Unix()))
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
