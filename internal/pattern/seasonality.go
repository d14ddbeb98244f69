package pattern

import (
	"fmt"
	"time"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

const (
	seasonalityMinPoints = 6
	seasonalityMinMonths = 3
	seasonalityThreshold = 0.15
	seasonalityPatternID = "revenue_seasonality"
)

// SeasonalityDetector compares average revenue by calendar month-of-year.
type SeasonalityDetector struct{}

// Name implements Detector.
func (SeasonalityDetector) Name() string { return "seasonality" }

// Detect implements Detector.
func (SeasonalityDetector) Detect(in Input) Result {
	var out Result
	if !usable(in) {
		return out
	}
	s := in.Panel.Series(model.ColRevenue)
	if s.Len() < seasonalityMinPoints {
		return out
	}

	byMonth := make(map[time.Month][]float64)
	for i, m := range s.Months {
		byMonth[m.Month] = append(byMonth[m.Month], s.Values[i])
	}
	if len(byMonth) < seasonalityMinMonths {
		return out
	}

	var (
		means             []float64
		best, worst       time.Month
		bestAvg, worstAvg float64
	)
	for m := time.January; m <= time.December; m++ {
		vals, ok := byMonth[m]
		if !ok {
			continue
		}
		avg := stats.Mean(vals)
		means = append(means, avg)
		if best == 0 || avg > bestAvg {
			best, bestAvg = m, avg
		}
		if worst == 0 || avg < worstAvg {
			worst, worstAvg = m, avg
		}
	}

	overall := stats.Mean(means)
	strength := 0.0
	if overall > 0 {
		strength = (bestAvg - worstAvg) / overall
	}
	if strength <= seasonalityThreshold {
		return out
	}

	bestName, worstName := best.String()[:3], worst.String()[:3]
	out.Patterns = append(out.Patterns, model.PatternInsight{
		ID:   seasonalityPatternID,
		Type: model.PatternSeasonality,
		Description: fmt.Sprintf("Revenue shows seasonality: %s is strongest (+%.0f%%), %s is weakest (%.0f%%)",
			bestName, (bestAvg/overall-1)*100, worstName, (worstAvg/overall-1)*100),
		Strength:   stats.Round(stats.Clamp(strength, 0, 1), 2),
		Actionable: true,
		Chain: model.NewEvidenceChain(seriesEvidence(in.Panel, s,
			fmt.Sprintf("monthly_avg comparison over %d months", s.Len()), nil)),
		Specifics: map[string]any{
			"best_month":           bestName,
			"best_month_avg":       stats.Round(bestAvg, 2),
			"worst_month":          worstName,
			"worst_month_avg":      stats.Round(worstAvg, 2),
			"overall_avg":          stats.Round(overall, 2),
			"seasonality_strength": stats.Round(strength, 3),
		},
	})
	return out
}
