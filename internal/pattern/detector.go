// Package pattern runs the statistical detectors over a monthly panel:
// trend, volatility, seasonality, correlation, anomaly and transaction
// breakdowns. Each detector returns its own Result; nothing is shared
// between calls.
package pattern

import (
	"log/slog"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
)

// Input is what a detector reads. Dataset is consulted only by detectors
// that need transaction-level rows.
type Input struct {
	Panel   *panel.Panel
	Dataset model.Dataset
}

// Result collects the output of one or more detectors.
type Result struct {
	Metrics    []model.ComputedMetric
	Patterns   []model.PatternInsight
	Anomalies  []model.DataAnomaly
	Breakdowns []model.CategoryBreakdown
}

// Merge appends other's output after r's.
func (r *Result) Merge(other Result) {
	r.Metrics = append(r.Metrics, other.Metrics...)
	r.Patterns = append(r.Patterns, other.Patterns...)
	r.Anomalies = append(r.Anomalies, other.Anomalies...)
	r.Breakdowns = append(r.Breakdowns, other.Breakdowns...)
}

// Detector finds one kind of pattern.
type Detector interface {
	Name() string
	Detect(in Input) Result
}

// DefaultDetectors returns the detectors in the order their output is
// reported.
func DefaultDetectors() []Detector {
	return []Detector{
		TrendDetector{},
		VolatilityDetector{},
		SeasonalityDetector{},
		CorrelationDetector{},
		AnomalyDetector{},
		BreakdownDetector{},
	}
}

// Run executes detectors in order and concatenates their results. With no
// detectors given it runs DefaultDetectors.
func Run(in Input, detectors ...Detector) Result {
	if len(detectors) == 0 {
		detectors = DefaultDetectors()
	}
	var out Result
	for _, d := range detectors {
		r := d.Detect(in)
		slog.Debug("Detector finished",
			"detector", d.Name(),
			"metrics", len(r.Metrics),
			"patterns", len(r.Patterns),
			"anomalies", len(r.Anomalies),
			"breakdowns", len(r.Breakdowns))
		out.Merge(r)
	}
	return out
}

// statColumns are the series the trend, volatility and anomaly detectors
// examine.
var statColumns = []string{model.ColRevenue, model.ColLabor, model.ColCOGS}

func seriesEvidence(p *panel.Panel, s panel.Series, computation string, raw []float64) model.EvidenceSpec {
	return model.EvidenceSpec{
		Dataset:     p.DatasetLabel(s.Column),
		Columns:     []string{s.Column},
		Computation: computation,
		SampleSize:  s.Len(),
		TimeRange:   s.TimeRange(),
		RawValues:   raw,
	}
}

func usable(in Input) bool {
	return in.Panel != nil && !in.Panel.IsEmpty()
}
