package pattern

import (
	"fmt"
	"math"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// Trend thresholds.
const (
	trendMinPoints      = 3
	trendDirectionBand  = 1.0
	trendPatternRate    = 2.0
	trendPatternRSquare = 0.5
)

// TrendDetector fits an ordinary least squares line to each series against
// a 0-based month index and reports the slope as percent of the mean per
// month.
type TrendDetector struct{}

// Name implements Detector.
func (TrendDetector) Name() string { return "trend" }

// TrendDirection classifies a monthly rate of change.
func TrendDirection(ratePct float64) string {
	switch {
	case ratePct > trendDirectionBand:
		return "increasing"
	case ratePct < -trendDirectionBand:
		return "decreasing"
	default:
		return "stable"
	}
}

// Detect implements Detector.
func (TrendDetector) Detect(in Input) Result {
	var out Result
	if !usable(in) {
		return out
	}
	for _, col := range statColumns {
		def, _ := model.SeriesFor(col)
		s := in.Panel.Series(col)
		if s.Len() < trendMinPoints {
			continue
		}

		x := make([]float64, s.Len())
		for i := range x {
			x[i] = float64(i)
		}
		reg, ok := stats.LinearRegression(x, s.Values)
		if !ok {
			continue
		}

		mean := stats.Mean(s.Values)
		rate := 0.0
		if mean != 0 {
			rate = reg.Slope / mean * 100
		}
		direction := TrendDirection(rate)

		out.Metrics = append(out.Metrics, model.ComputedMetric{
			ID:         def.Prefix + "_trend",
			Label:      def.Label + " Monthly Trend",
			Value:      stats.Round(rate, 2),
			Unit:       model.UnitPctPerMonth,
			Category:   model.CategoryTrend,
			Confidence: stats.Round(math.Min(0.9, reg.RSquared+0.3), 2),
			Chain: model.NewEvidenceChain(seriesEvidence(in.Panel, s,
				fmt.Sprintf("linear_regression(slope=%.2f, r²=%.3f, direction=%s)", reg.Slope, reg.RSquared, direction),
				s.Values)),
		})

		if math.Abs(rate) <= trendPatternRate || reg.RSquared <= trendPatternRSquare {
			continue
		}
		out.Patterns = append(out.Patterns, model.PatternInsight{
			ID:          def.Prefix + "_trend_pattern",
			Type:        model.PatternTrend,
			Description: fmt.Sprintf("%s is %s at %.1f%% per month", def.Label, direction, math.Abs(rate)),
			Strength:    stats.Round(reg.RSquared, 2),
			Actionable:  true,
			Chain: model.NewEvidenceChain(seriesEvidence(in.Panel, s,
				fmt.Sprintf("linear_regression over %d months", s.Len()), nil)),
			Specifics: map[string]any{
				"direction": direction,
				"rate_pct":  stats.Round(rate, 2),
				"r_squared": stats.Round(reg.RSquared, 3),
				"p_value":   stats.Round(reg.PValue, 4),
			},
		})
	}
	return out
}
