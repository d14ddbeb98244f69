package pattern

import (
	"fmt"
	"math"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

const (
	volatilityMinPoints = 4
	volatilityPattern   = 0.2
)

// VolatilityDetector measures month-to-month variation as the coefficient
// of variation.
type VolatilityDetector struct{}

// Name implements Detector.
func (VolatilityDetector) Name() string { return "volatility" }

// VolatilityBucket names the band a coefficient of variation falls in.
func VolatilityBucket(cv float64) string {
	switch {
	case cv < 0.1:
		return "very_stable"
	case cv < 0.2:
		return "stable"
	case cv < 0.3:
		return "moderate"
	default:
		return "volatile"
	}
}

// Detect implements Detector.
func (VolatilityDetector) Detect(in Input) Result {
	var out Result
	if !usable(in) {
		return out
	}
	for _, col := range statColumns {
		def, _ := model.SeriesFor(col)
		s := in.Panel.Series(col)
		n := s.Len()
		if n < volatilityMinPoints {
			continue
		}

		mean := stats.Mean(s.Values)
		std := stats.StdDev(s.Values)
		cv := stats.CV(s.Values)
		bucket := VolatilityBucket(cv)

		out.Metrics = append(out.Metrics, model.ComputedMetric{
			ID:         def.Prefix + "_volatility",
			Label:      def.Label + " Volatility (CV)",
			Value:      stats.Round(cv, 3),
			Unit:       model.UnitCV,
			Category:   model.CategoryVolatility,
			Confidence: stats.Round(math.Min(0.9, 0.4+float64(n)*0.05), 2),
			Chain: model.NewEvidenceChain(seriesEvidence(in.Panel, s,
				fmt.Sprintf("std(%.0f) / mean(%.0f) = %.3f (%s)", std, mean, cv, bucket),
				s.Values)),
		})

		if cv <= volatilityPattern {
			continue
		}
		out.Patterns = append(out.Patterns, model.PatternInsight{
			ID:          def.Prefix + "_high_volatility",
			Type:        model.PatternVolatility,
			Description: fmt.Sprintf("%s shows high month-to-month volatility (CV=%.2f)", def.Label, cv),
			Strength:    stats.Round(math.Min(1, cv), 2),
			Actionable:  true,
			Chain: model.NewEvidenceChain(seriesEvidence(in.Panel, s,
				fmt.Sprintf("coefficient_of_variation = %.3f", cv), nil)),
			Specifics: map[string]any{
				"cv":             stats.Round(cv, 3),
				"mean":           stats.Round(mean, 2),
				"std":            stats.Round(std, 2),
				"interpretation": bucket,
			},
		})
	}
	return out
}
