// Package metrics computes the primary, ratio, change and signal metrics of
// a monthly panel. Every metric carries the evidence chain describing how it
// was derived. Insufficient data never fails: the metric is omitted.
package metrics

import (
	"log/slog"
	"math"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// Confidence ceilings by metric class. Projections extrapolate beyond the
// data and cap lower than direct sums.
const (
	ceilingTotal      = 0.95
	ceilingAverage    = 0.90
	ceilingExpense    = 0.85
	ceilingSpread     = 0.85
	ceilingProjection = 0.80
	ceilingChange     = 0.85

	pointConfidence  = 0.95
	signalConfidence = 0.85
)

// Compute derives every metric the panel supports, in reporting order:
// per-series statistics, cross-series ratios, month-over-month changes,
// growth rates and finally the vertical's signals.
func Compute(p *panel.Panel, signals []model.Signal) []model.ComputedMetric {
	if p == nil || p.IsEmpty() {
		slog.Debug("Skipping metrics for empty panel")
		return nil
	}

	var out []model.ComputedMetric
	for _, def := range model.CanonicalSeries {
		out = append(out, SeriesMetrics(p, def)...)
	}
	out = append(out, RatioMetrics(p)...)
	out = append(out, ChangeMetrics(p)...)
	out = append(out, GrowthMetrics(p)...)
	out = append(out, SignalMetrics(p, signals)...)

	slog.Debug("Computed metrics", "count", len(out), "months", p.Len())
	return out
}

// scaled is the sample-size confidence rule min(ceiling, base + n×0.05).
func scaled(base float64, n int, ceiling float64) float64 {
	return stats.Round(math.Min(ceiling, base+float64(n)*0.05), 2)
}

type metricSpec struct {
	id       string
	label    string
	unit     string
	category string
	value    float64
	conf     float64
	evidence model.EvidenceSpec
}

func newMetric(s metricSpec) model.ComputedMetric {
	return model.ComputedMetric{
		ID:         s.id,
		Label:      s.label,
		Value:      s.value,
		Unit:       s.unit,
		Category:   s.category,
		Confidence: s.conf,
		Chain:      model.NewEvidenceChain(s.evidence),
	}
}

func monthFilter(m model.Month) map[string]string {
	return map[string]string{"month": m.String()}
}

func roundAll(xs []float64, places int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = stats.Round(x, places)
	}
	return out
}
