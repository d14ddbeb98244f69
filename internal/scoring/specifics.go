package scoring

import (
	"fmt"

	"github.com/Veraticus/ledgerlens/internal/model"
)

const (
	maxCategoryEntries     = 5
	weakCorrelationCutoff  = 0.7
	limitedEvidenceCutoff  = 0.5
	limitedEvidenceMessage = "Limited supporting data - more months of history would improve confidence"
)

// specifics pulls the concrete facts that make a recommendation about this
// business rather than a generic one.
func (s *Scorer) specifics(t model.InitiativeType) model.DataSpecifics {
	var d model.DataSpecifics
	cov := s.in.Coverage
	if !cov.Start.IsZero() {
		d.AnalysisPeriod = fmt.Sprintf("%s to %s", cov.Start, cov.End)
	}
	d.MonthsAnalyzed = cov.Months

	switch t {
	case model.InitiativeLabor:
		if m, ok := s.metrics["labor_peak_month"]; ok {
			d.PeakLaborMonth, _ = m.Chain.Filter("month")
			d.PeakLaborValue = ptr(m.Value)
		}
		if corr, ok := s.metrics.Value("labor_revenue_correlation"); ok {
			d.LaborRevenueCorrelation = ptr(corr)
			if corr < weakCorrelationCutoff {
				d.CorrelationInsight = "Low correlation suggests labor doesn't track revenue well"
			}
		}
	case model.InitiativePricing, model.InitiativeThroughput:
		if m, ok := s.metrics["revenue_peak_month"]; ok {
			d.PeakRevenueMonth, _ = m.Chain.Filter("month")
			d.PeakRevenueValue = ptr(m.Value)
		}
		if m, ok := s.metrics["revenue_trough_month"]; ok {
			d.TroughRevenueMonth, _ = m.Chain.Filter("month")
			d.TroughRevenueValue = ptr(m.Value)
		}
	}

	if b, ok := s.breakdowns["category"]; ok {
		entries := b.Entries
		if len(entries) > maxCategoryEntries {
			entries = entries[:maxCategoryEntries]
		}
		d.RevenueCategories = append([]model.BreakdownEntry(nil), entries...)
		d.TopCategory = b.TopContributor
		d.CategoryConcentration = ptr(b.Concentration)
	}
	if b, ok := s.breakdowns["day_of_week"]; ok {
		d.DayOfWeek = append([]model.BreakdownEntry(nil), b.Entries...)
		d.BestDay = b.TopContributor
	}

	for _, p := range s.in.Patterns {
		if p.Type != model.PatternSeasonality {
			continue
		}
		d.Seasonality = make(map[string]any, len(p.Specifics))
		for k, v := range p.Specifics {
			d.Seasonality[k] = v
		}
		break
	}
	return d
}

// dataGaps lists what additional data would make the recommendation
// stronger. Conditional entries come first.
func (s *Scorer) dataGaps(t model.InitiativeType, evidence float64) []string {
	gaps := []string{}
	if evidence < limitedEvidenceCutoff {
		gaps = append(gaps, limitedEvidenceMessage)
	}

	switch t {
	case model.InitiativeLabor:
		if !s.metrics.Has("labor_pct") {
			gaps = append(gaps, "Labor as % of revenue not available - need both labor and revenue data")
		}
		if !s.metrics.Has("labor_revenue_correlation") {
			gaps = append(gaps, "Labor-revenue correlation not computed - need more data points")
		}
		gaps = append(gaps,
			"Hourly labor data would enable shift-level optimization",
			"Role/position breakdown would identify specific overstaffing",
		)
	case model.InitiativePricing:
		if !s.metrics.Has("gross_margin_pct") {
			gaps = append(gaps, "Gross margin not available - need COGS data")
		}
		gaps = append(gaps,
			"Item-level pricing data would enable SKU-specific recommendations",
			"Competitor pricing would validate pricing power",
		)
	case model.InitiativeCost, model.InitiativeWaste:
		gaps = append(gaps,
			"Vendor-level cost breakdown would identify specific negotiation targets",
			"Waste tracking data would quantify reduction opportunity",
		)
	}
	return gaps
}
