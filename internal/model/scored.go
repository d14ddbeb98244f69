package model

import (
	"fmt"
	"strings"
)

// EffortLevel is the implementation effort bucket.
type EffortLevel string

// Effort levels.
const (
	EffortSmall  EffortLevel = "S"
	EffortMedium EffortLevel = "M"
	EffortLarge  EffortLevel = "L"
)

// Scoring component names.
const (
	ComponentEvidence   = "evidence_strength"
	ComponentGap        = "gap_magnitude"
	ComponentConfidence = "confidence"
	ComponentEffort     = "effort_score"
	ComponentBoost      = "priority_boost"
	ComponentImpact     = "impact_calculation"
)

// ScoringEvidence documents one scoring component.
type ScoringEvidence struct {
	Component         string   `json:"component"`
	Computation       string   `json:"computation"`
	SupportingMetrics []string `json:"supporting_metrics"`
	RawValue          float64  `json:"raw_value"`
	Score             float64  `json:"result"`
	Confidence        float64  `json:"confidence"`
}

// Impact estimation methods.
const (
	ImpactGapBased        = "gap_based"
	ImpactAssumptionBased = "assumption_based"
	ImpactAssumptionFixed = "assumption_fixed"
)

// Sensitivity shows how the mid estimate moves when assumptions change.
type Sensitivity struct {
	IfGapOnePointSmaller float64 `json:"if_gap_1pp_smaller"`
	IfCaptureRateHalved  float64 `json:"if_capture_rate_halved"`
}

// ImpactEstimate is a low/mid/high annual dollar estimate.
type ImpactEstimate struct {
	BaseValue    *float64     `json:"base_value,omitempty"`
	Sensitivity  *Sensitivity `json:"sensitivity,omitempty"`
	Method       string       `json:"method"`
	BaseMetric   string       `json:"base_metric,omitempty"`
	Assumptions  []string     `json:"assumptions"`
	Low          float64      `json:"low"`
	Mid          float64      `json:"mid"`
	High         float64      `json:"high"`
	IsAssumption bool         `json:"is_assumption"`
}

// GapType identifies how a gap magnitude was derived.
type GapType string

// Gap types.
const (
	GapBenchmark  GapType = "benchmark_comparison"
	GapCOGS       GapType = "cogs_benchmark"
	GapMargin     GapType = "margin_benchmark"
	GapVolatility GapType = "volatility_based"
	GapCOGSWaste  GapType = "cogs_derived"
	GapAssumed    GapType = "assumed"
)

// GapAnalysis is the detail behind a gap magnitude score.
type GapAnalysis struct {
	Current        *float64     `json:"current_value,omitempty"`
	Benchmark      *float64     `json:"benchmark_value,omitempty"`
	Value          *float64     `json:"gap_value,omitempty"`
	WastePotential *float64     `json:"waste_potential_pct,omitempty"`
	Type           GapType      `json:"gap_type"`
	Direction      GapDirection `json:"gap_direction,omitempty"`
	Computation    string       `json:"computation"`
	Confidence     float64      `json:"confidence"`
}

// PositiveGap returns the gap value when it is strictly positive.
func (g GapAnalysis) PositiveGap() (float64, bool) {
	if g.Value == nil || *g.Value <= 0 {
		return 0, false
	}
	return *g.Value, true
}

// DataSpecifics are concrete facts from the data that make a
// recommendation specific.
type DataSpecifics struct {
	PeakLaborValue          *float64         `json:"peak_labor_value,omitempty"`
	LaborRevenueCorrelation *float64         `json:"labor_revenue_correlation,omitempty"`
	PeakRevenueValue        *float64         `json:"peak_revenue_value,omitempty"`
	TroughRevenueValue      *float64         `json:"trough_revenue_value,omitempty"`
	CategoryConcentration   *float64         `json:"category_concentration,omitempty"`
	Seasonality             map[string]any   `json:"seasonality,omitempty"`
	AnalysisPeriod          string           `json:"analysis_period,omitempty"`
	PeakLaborMonth          string           `json:"peak_labor_month,omitempty"`
	CorrelationInsight      string           `json:"correlation_insight,omitempty"`
	PeakRevenueMonth        string           `json:"peak_revenue_month,omitempty"`
	TroughRevenueMonth      string           `json:"trough_revenue_month,omitempty"`
	TopCategory             string           `json:"top_category,omitempty"`
	BestDay                 string           `json:"best_day,omitempty"`
	RevenueCategories       []BreakdownEntry `json:"revenue_categories,omitempty"`
	DayOfWeek               []BreakdownEntry `json:"day_of_week_breakdown,omitempty"`
	MonthsAnalyzed          int              `json:"months_analyzed,omitempty"`
}

// KeyValue is a rendered name/value pair.
type KeyValue struct {
	Key   string
	Value string
}

// Scalars returns the scalar specifics in a fixed order for display.
func (d DataSpecifics) Scalars() []KeyValue {
	var out []KeyValue
	addString := func(k, v string) {
		if v != "" {
			out = append(out, KeyValue{Key: k, Value: v})
		}
	}
	addFloat := func(k string, v *float64) {
		if v != nil {
			out = append(out, KeyValue{Key: k, Value: fmt.Sprintf("%g", *v)})
		}
	}
	addString("analysis_period", d.AnalysisPeriod)
	if d.MonthsAnalyzed > 0 {
		out = append(out, KeyValue{Key: "months_analyzed", Value: fmt.Sprintf("%d", d.MonthsAnalyzed)})
	}
	addString("peak_labor_month", d.PeakLaborMonth)
	addFloat("peak_labor_value", d.PeakLaborValue)
	addFloat("labor_revenue_correlation", d.LaborRevenueCorrelation)
	addString("correlation_insight", d.CorrelationInsight)
	addString("peak_revenue_month", d.PeakRevenueMonth)
	addFloat("peak_revenue_value", d.PeakRevenueValue)
	addString("trough_revenue_month", d.TroughRevenueMonth)
	addFloat("trough_revenue_value", d.TroughRevenueValue)
	addString("top_category", d.TopCategory)
	addFloat("category_concentration", d.CategoryConcentration)
	addString("best_day", d.BestDay)
	if len(d.RevenueCategories) > 0 {
		names := make([]string, 0, len(d.RevenueCategories))
		for _, e := range d.RevenueCategories {
			names = append(names, e.Name)
		}
		out = append(out, KeyValue{Key: "revenue_categories", Value: strings.Join(names, ", ")})
	}
	return out
}

// ScoredInitiative is an initiative with its full scoring breakdown.
type ScoredInitiative struct {
	Gap              GapAnalysis       `json:"gap"`
	ID               string            `json:"initiative_id"`
	Title            string            `json:"title"`
	Category         string            `json:"category"`
	Type             InitiativeType    `json:"type"`
	Effort           EffortLevel       `json:"effort"`
	ScoringEvidence  []ScoringEvidence `json:"scoring_evidence"`
	Assumptions      []string          `json:"assumptions"`
	DataGaps         []string          `json:"data_gaps"`
	Impact           ImpactEstimate    `json:"impact"`
	Specifics        DataSpecifics     `json:"data_specifics"`
	EvidenceStrength float64           `json:"evidence_strength"`
	GapMagnitude     float64           `json:"gap_magnitude"`
	Confidence       float64           `json:"confidence"`
	EffortScore      float64           `json:"effort_score"`
	PriorityScore    float64           `json:"priority_score"`
	Rank             int               `json:"rank,omitempty"`
}

// Component returns the scoring evidence for a named component.
func (s ScoredInitiative) Component(name string) (ScoringEvidence, bool) {
	for _, se := range s.ScoringEvidence {
		if se.Component == name {
			return se, true
		}
	}
	return ScoringEvidence{}, false
}
