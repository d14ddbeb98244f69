package pattern

import (
	"fmt"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

const (
	correlationMinPoints     = 4
	weakCorrelationMinPoints = 6
	weakCorrelation          = 0.7
)

// CorrelationDetector measures how closely labor cost tracks revenue over
// the months both are present.
type CorrelationDetector struct{}

// Name implements Detector.
func (CorrelationDetector) Name() string { return "correlation" }

// Detect implements Detector.
func (CorrelationDetector) Detect(in Input) Result {
	var out Result
	if !usable(in) {
		return out
	}
	aligned := panel.Align(in.Panel.Series(model.ColLabor), in.Panel.Series(model.ColRevenue))
	n := aligned.Len()
	if n < correlationMinPoints {
		return out
	}
	corr, ok := stats.Pearson(aligned.Left, aligned.Right)
	if !ok {
		// A flat series has no defined correlation.
		return out
	}

	columns := []string{model.ColLabor, model.ColRevenue}
	evidence := func(computation string) model.EvidenceChain {
		return model.NewEvidenceChain(model.EvidenceSpec{
			Dataset:     in.Panel.DatasetLabel(columns...),
			Columns:     columns,
			Computation: computation,
			SampleSize:  n,
			TimeRange:   aligned.TimeRange(),
		})
	}

	confidence := 0.5
	if corr.PValue < 1 {
		confidence = stats.Round(1-corr.PValue, 2)
	}
	out.Metrics = append(out.Metrics, model.ComputedMetric{
		ID:         "labor_revenue_correlation",
		Label:      "Labor-Revenue Correlation",
		Value:      stats.Round(corr.R, 3),
		Unit:       model.UnitCorrelation,
		Category:   model.CategoryCorrelation,
		Confidence: confidence,
		Chain:      evidence(fmt.Sprintf("pearson_correlation(r=%.3f, p=%.4f)", corr.R, corr.PValue)),
	})

	if corr.R >= weakCorrelation || n < weakCorrelationMinPoints {
		return out
	}
	out.Patterns = append(out.Patterns, model.PatternInsight{
		ID:          "labor_revenue_weak_correlation",
		Type:        model.PatternCorrelation,
		Description: fmt.Sprintf("Labor costs don't track revenue well (r=%.2f). This may indicate scheduling inefficiency.", corr.R),
		Strength:    stats.Round(stats.Clamp(1-corr.R, 0, 1), 2),
		Actionable:  true,
		Chain:       evidence(fmt.Sprintf("pearson_correlation over %d months", n)),
		Specifics: map[string]any{
			"correlation":    stats.Round(corr.R, 3),
			"p_value":        stats.Round(corr.PValue, 4),
			"interpretation": "Labor should generally track revenue. Low correlation suggests fixed staffing regardless of demand.",
		},
	})
	return out
}
