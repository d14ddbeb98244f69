package scoring

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/model"
)

// requiredMetrics lists the metrics that make up the evidence for each
// initiative type.
var requiredMetrics = map[model.InitiativeType][]string{
	model.InitiativeLabor:      {"labor_pct", "labor_avg_monthly", "labor_volatility", "labor_revenue_correlation"},
	model.InitiativePricing:    {"revenue_avg_monthly", "cogs_pct", "gross_margin_pct"},
	model.InitiativeCost:       {"cogs_avg_monthly", "rent_avg_monthly", "utilities_avg_monthly"},
	model.InitiativeThroughput: {"revenue_avg_monthly", "revenue_peak_month", "revenue_trough_month"},
	model.InitiativeDiscount:   {"revenue_avg_monthly"},
	model.InitiativeWaste:      {"cogs_pct", "cogs_avg_monthly"},
	model.InitiativeMarketing:  {"revenue_avg_monthly", "revenue_trend"},
	model.InitiativeOperations: {"revenue_avg_monthly", "revenue_trend"},
}

// RequiredMetrics returns the evidence metrics for an initiative type.
func RequiredMetrics(t model.InitiativeType) []string {
	if req, ok := requiredMetrics[t]; ok {
		return append([]string(nil), req...)
	}
	return []string{"revenue_avg_monthly"}
}

const patternBonus = 0.1

func (s *Scorer) evidenceStrength(t model.InitiativeType) (float64, model.ScoringEvidence) {
	required := RequiredMetrics(t)
	var supporting []string
	found := 0
	for _, id := range required {
		if s.metrics.Has(id) {
			found++
			supporting = append(supporting, id)
		}
	}

	base := float64(found) / float64(len(required))
	patterns := 0
	for _, p := range s.in.Patterns {
		if PatternSupports(p, t) {
			patterns++
			supporting = append(supporting, "pattern:"+p.ID)
		}
	}

	score := 0.0
	// Patterns alone are not evidence: without a single required metric
	// the initiative is dropped.
	if found > 0 {
		score = min(1, base+float64(patterns)*patternBonus)
	}

	return score, model.ScoringEvidence{
		Component:         model.ComponentEvidence,
		RawValue:          float64(found),
		Score:             round3(score),
		Computation:       fmt.Sprintf("Found %d/%d required metrics + %d supporting patterns", found, len(required), patterns),
		SupportingMetrics: nonNil(supporting),
		Confidence:        0.9,
	}
}

// PatternSupports reports whether a detected pattern is evidence for an
// initiative type.
func PatternSupports(p model.PatternInsight, t model.InitiativeType) bool {
	switch {
	case p.Type == model.PatternVolatility && strings.Contains(p.ID, "labor"):
		return t == model.InitiativeLabor
	case p.Type == model.PatternCorrelation && strings.Contains(p.ID, "labor_revenue"):
		return t == model.InitiativeLabor
	case p.Type == model.PatternTrend && strings.Contains(p.ID, "revenue"):
		return t == model.InitiativePricing || t == model.InitiativeThroughput
	case p.Type == model.PatternSeasonality:
		return t == model.InitiativeLabor || t == model.InitiativeThroughput || t == model.InitiativePricing
	case p.Type == model.PatternCycle && strings.Contains(p.ID, "day_of_week"):
		return t == model.InitiativeLabor || t == model.InitiativeThroughput
	default:
		return false
	}
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
