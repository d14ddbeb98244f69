package analysis

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/model"
)

const maxDataGapLines = 3

// NewRecommendation turns a scored, sized initiative into a recommendation
// with a deterministic headline, rationale and evidence chain.
func NewRecommendation(si model.ScoredInitiative) Recommendation {
	return Recommendation{
		Rank:              si.Rank,
		InitiativeID:      si.ID,
		Title:             si.Title,
		Category:          si.Category,
		Type:              si.Type,
		Headline:          Headline(si),
		Rationale:         Rationale(si),
		Impact:            si.Impact,
		Confidence:        si.Confidence,
		Effort:            si.Effort,
		PriorityScore:     si.PriorityScore,
		EvidenceChain:     EvidenceChain(si),
		Assumptions:       append([]string{}, si.Assumptions...),
		IsAssumptionBased: si.Impact.IsAssumption,
		Sensitivity:       si.Impact.Sensitivity,
		Specifics:         si.Specifics,
		DataGaps:          append([]string{}, si.DataGaps...),
		Gap:               si.Gap,
		Scoring: ScoringBreakdown{
			EvidenceStrength: si.EvidenceStrength,
			GapMagnitude:     si.GapMagnitude,
			Confidence:       si.Confidence,
			EffortScore:      si.EffortScore,
		},
	}
}

// EvidenceChain lists the scoring components followed by the impact
// calculation.
func EvidenceChain(si model.ScoredInitiative) []model.ScoringEvidence {
	chain := make([]model.ScoringEvidence, 0, len(si.ScoringEvidence)+1)
	for _, se := range si.ScoringEvidence {
		se.SupportingMetrics = append([]string{}, se.SupportingMetrics...)
		chain = append(chain, se)
	}

	imp := si.Impact
	base := "none"
	if imp.BaseMetric != "" && imp.BaseValue != nil {
		base = fmt.Sprintf("%s=%.2f", imp.BaseMetric, *imp.BaseValue)
	}
	conf := 0.7
	if imp.IsAssumption {
		conf = 0.4
	}
	supporting := []string{}
	if imp.BaseMetric != "" {
		supporting = append(supporting, imp.BaseMetric)
	}
	chain = append(chain, model.ScoringEvidence{
		Component:         model.ComponentImpact,
		Computation:       fmt.Sprintf("Based on %s, method=%s", base, imp.Method),
		SupportingMetrics: supporting,
		RawValue:          imp.Mid,
		Score:             imp.Mid,
		Confidence:        conf,
	})
	return chain
}

// Headline is a one-line summary built only from the data.
func Headline(si model.ScoredInitiative) string {
	parts := []string{si.Title}
	if gap, ok := si.Gap.PositiveGap(); ok {
		parts = append(parts, fmt.Sprintf("(%.1fpp gap to benchmark)", gap))
	}

	sp := si.Specifics
	switch si.Type {
	case model.InitiativeLabor:
		if sp.PeakLaborMonth != "" {
			parts = append(parts, "Focus on "+sp.PeakLaborMonth)
		}
	case model.InitiativePricing, model.InitiativeThroughput:
		if sp.TroughRevenueMonth != "" {
			parts = append(parts, "Address "+sp.TroughRevenueMonth+" trough")
		}
	}
	if sp.BestDay != "" && (si.Type == model.InitiativeLabor || si.Type == model.InitiativeThroughput) {
		parts = append(parts, "Leverage "+sp.BestDay+" patterns")
	}
	if sp.AnalysisPeriod != "" {
		parts = append(parts, "[Based on "+sp.AnalysisPeriod+"]")
	}
	return strings.Join(parts, " - ")
}

// Rationale explains the recommendation line by line from the scoring
// evidence. It contains no generated prose.
func Rationale(si model.ScoredInitiative) string {
	lines := []string{
		fmt.Sprintf("Priority Score: %.2f/1.00", si.PriorityScore),
		"",
		"EVIDENCE:",
	}
	for _, se := range si.ScoringEvidence {
		lines = append(lines, fmt.Sprintf("  • %s: %.2f (%s)", se.Component, se.Score, se.Computation))
	}

	gap := si.Gap
	if gap.Current != nil && gap.Benchmark != nil {
		lines = append(lines, "", "GAP ANALYSIS:",
			fmt.Sprintf("  Current: %.1f", *gap.Current),
			fmt.Sprintf("  Benchmark: %.1f", *gap.Benchmark))
		if gap.Value != nil {
			lines = append(lines, fmt.Sprintf("  Gap: %.1fpp (%s)", *gap.Value, gap.Direction))
		}
	}

	imp := si.Impact
	lines = append(lines, "", "IMPACT CALCULATION:")
	if imp.IsAssumption {
		lines = append(lines, "  ⚠️ ASSUMPTION-BASED (limited data)")
	}
	lines = append(lines, "  Method: "+imp.Method)
	if imp.BaseMetric != "" && imp.BaseValue != nil {
		lines = append(lines, fmt.Sprintf("  Base: %s = $%s/month", imp.BaseMetric, formatMoney(*imp.BaseValue)))
	}
	lines = append(lines, fmt.Sprintf("  Range: $%s - $%s", formatMoney(imp.Low), formatMoney(imp.High)))
	if s := imp.Sensitivity; s != nil {
		lines = append(lines, "  Sensitivity:",
			fmt.Sprintf("    if_gap_1pp_smaller: $%s", formatMoney(s.IfGapOnePointSmaller)),
			fmt.Sprintf("    if_capture_rate_halved: $%s", formatMoney(s.IfCaptureRateHalved)))
	}

	if scalars := si.Specifics.Scalars(); len(scalars) > 0 {
		lines = append(lines, "", "DATA SPECIFICS:")
		for _, kv := range scalars {
			lines = append(lines, fmt.Sprintf("  • %s: %s", kv.Key, kv.Value))
		}
	}

	if len(si.Assumptions) > 0 {
		lines = append(lines, "", "ASSUMPTIONS:")
		for _, a := range si.Assumptions {
			lines = append(lines, "  • "+a)
		}
	}

	if len(si.DataGaps) > 0 {
		lines = append(lines, "", "WOULD IMPROVE WITH:")
		gaps := si.DataGaps
		if len(gaps) > maxDataGapLines {
			gaps = gaps[:maxDataGapLines]
		}
		for _, g := range gaps {
			lines = append(lines, "  • "+g)
		}
	}
	return strings.Join(lines, "\n")
}

// formatMoney renders a dollar amount with thousands separators and no
// cents, e.g. 12345.6 -> "12,346".
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
