package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/reference"
)

func metric(id string, value float64) model.ComputedMetric {
	return model.ComputedMetric{ID: id, Value: value, Confidence: 0.9}
}

func monthMetric(id string, value float64, month string) model.ComputedMetric {
	m := metric(id, value)
	m.Chain = model.NewEvidenceChain(model.EvidenceSpec{
		Dataset:     "PNL",
		Computation: "argmax",
		Filters:     map[string]string{"month": month},
		SampleSize:  6,
	})
	return m
}

func baseInputs() Inputs {
	return Inputs{
		Benchmarks: reference.Builtin("restaurant").Benchmarks,
		Mode: model.ModeInfo{
			Mode:       model.ModePNL,
			Confidence: 0.9,
			DataPacks:  []model.PackType{model.PackPNL},
		},
		Quality: panel.DataQuality{OverallCompleteness: 1},
		Coverage: panel.TimeCoverage{
			Start:  model.MustParseMonth("2024-01"),
			End:    model.MustParseMonth("2024-06"),
			Months: 6,
		},
		Metrics: []model.ComputedMetric{
			metric("revenue_avg_monthly", 100000),
			monthMetric("revenue_peak_month", 110000, "2024-04"),
			monthMetric("revenue_trough_month", 98000, "2024-03"),
			metric("revenue_volatility", 0.04),
			metric("revenue_trend", 1.2),
			metric("labor_avg_monthly", 31000),
			monthMetric("labor_peak_month", 33000, "2024-04"),
			metric("labor_pct", 31),
			metric("labor_volatility", 0.05),
			metric("labor_revenue_correlation", 0.6),
			metric("cogs_avg_monthly", 34000),
			metric("cogs_pct", 34),
			metric("gross_margin_pct", 66),
			metric("rent_avg_monthly", 6000),
		},
	}
}

func initiative(id string, t model.InitiativeType) model.Initiative {
	return model.Initiative{ID: id, Title: id, Category: "test", Type: t}
}

func TestScore_LaborGap(t *testing.T) {
	s := New(baseInputs(), Options{})
	si, ok := s.Score(initiative("labor_scheduling", model.InitiativeLabor))
	require.True(t, ok)

	assert.Equal(t, 1.0, si.EvidenceStrength)
	require.NotNil(t, si.Gap.Value)
	assert.InDelta(t, 3.0, *si.Gap.Value, 1e-9)
	assert.Equal(t, model.GapBenchmark, si.Gap.Type)
	assert.Equal(t, model.GapAbove, si.Gap.Direction)
	assert.InDelta(t, 0.3, si.GapMagnitude, 1e-9)
	assert.Equal(t, "current(31.0%) - benchmark(28.0%) = 3.0pp gap", si.Gap.Computation)

	// 0.9*0.4 + 1*0.3 + 1*0.3 + 0.06
	assert.InDelta(t, 1.0, si.Confidence, 1e-9)
	assert.Equal(t, model.EffortMedium, si.Effort)
	assert.InDelta(t, 0.5, si.EffortScore, 1e-9)
	assert.InDelta(t, 0.25+0.35*0.3+0.2+0.1, si.PriorityScore, 1e-9)

	require.Len(t, si.ScoringEvidence, 4)
	ev, ok := si.Component(model.ComponentEvidence)
	require.True(t, ok)
	assert.Equal(t, "Found 4/4 required metrics + 0 supporting patterns", ev.Computation)
	assert.Equal(t, 4.0, ev.RawValue)
}

func TestScore_PatternsAddEvidence(t *testing.T) {
	in := baseInputs()
	in.Metrics = []model.ComputedMetric{metric("labor_pct", 31), metric("labor_avg_monthly", 31000)}
	in.Patterns = []model.PatternInsight{
		{ID: "labor_high_volatility", Type: model.PatternVolatility},
		{ID: "labor_revenue_weak_correlation", Type: model.PatternCorrelation},
		{ID: "revenue_trend_pattern", Type: model.PatternTrend},
	}

	si, ok := New(in, Options{}).Score(initiative("labor", model.InitiativeLabor))
	require.True(t, ok)
	assert.InDelta(t, 0.7, si.EvidenceStrength, 1e-9)

	ev, _ := si.Component(model.ComponentEvidence)
	assert.Contains(t, ev.SupportingMetrics, "pattern:labor_high_volatility")
	assert.Contains(t, ev.SupportingMetrics, "pattern:labor_revenue_weak_correlation")
	assert.NotContains(t, ev.SupportingMetrics, "pattern:revenue_trend_pattern")
}

func TestScore_NoEvidenceDropped(t *testing.T) {
	in := baseInputs()
	in.Metrics = []model.ComputedMetric{metric("revenue_avg_monthly", 1000)}
	in.Patterns = []model.PatternInsight{{ID: "labor_high_volatility", Type: model.PatternVolatility}}

	_, ok := New(in, Options{}).Score(initiative("labor", model.InitiativeLabor))
	assert.False(t, ok)
}

func TestScore_AssumedGapWithoutBenchmark(t *testing.T) {
	in := baseInputs()
	in.Benchmarks = model.NewBenchmarkTable("empty", nil)

	si, ok := New(in, Options{}).Score(initiative("labor", model.InitiativeLabor))
	require.True(t, ok)
	assert.Equal(t, model.GapAssumed, si.Gap.Type)
	assert.Equal(t, "default_assumption", si.Gap.Computation)
	assert.InDelta(t, 0.3, si.GapMagnitude, 1e-9)
	assert.Nil(t, si.Gap.Value)
}

func TestScore_PricingFallsBackToMargin(t *testing.T) {
	in := baseInputs()
	in.Benchmarks = model.NewBenchmarkTable("test", []model.Benchmark{
		{MetricID: "gross_margin_pct", Value: 70, Unit: "percentage", Source: "test", Confidence: 0.8},
	})

	si, ok := New(in, Options{}).Score(initiative("pricing", model.InitiativePricing))
	require.True(t, ok)
	assert.Equal(t, model.GapMargin, si.Gap.Type)
	require.NotNil(t, si.Gap.Value)
	assert.InDelta(t, 4.0, *si.Gap.Value, 1e-9)
	assert.InDelta(t, 4.0/15, si.GapMagnitude, 1e-3)
	assert.Equal(t, model.GapBelow, si.Gap.Direction)
}

func TestScore_ThroughputUsesVolatility(t *testing.T) {
	si, ok := New(baseInputs(), Options{}).Score(initiative("tp", model.InitiativeThroughput))
	require.True(t, ok)
	assert.Equal(t, model.GapVolatility, si.Gap.Type)
	assert.InDelta(t, 0.08, si.GapMagnitude, 1e-9)
	assert.Equal(t, "Revenue CV = 0.04, suggests 8% capacity opportunity", si.Gap.Computation)
	assert.Nil(t, si.Gap.Value)
	assert.Equal(t, "2024-04", si.Specifics.PeakRevenueMonth)
	assert.Equal(t, "2024-03", si.Specifics.TroughRevenueMonth)
}

func TestScore_Waste(t *testing.T) {
	si, ok := New(baseInputs(), Options{}).Score(initiative("waste", model.InitiativeWaste))
	require.True(t, ok)
	assert.Equal(t, model.GapCOGSWaste, si.Gap.Type)
	require.NotNil(t, si.Gap.WastePotential)
	assert.InDelta(t, 1.0, *si.Gap.WastePotential, 1e-9)
	assert.InDelta(t, 0.2, si.GapMagnitude, 1e-9)

	in := baseInputs()
	in.Metrics = append(in.Metrics[:0:0], metric("cogs_pct", 28), metric("cogs_avg_monthly", 28000))
	si, ok = New(in, Options{}).Score(initiative("waste", model.InitiativeWaste))
	require.True(t, ok)
	assert.Equal(t, 0.0, si.GapMagnitude)
	assert.Equal(t, model.GapCOGSWaste, si.Gap.Type)
}

func TestScore_MissingCOGS(t *testing.T) {
	in := baseInputs()
	var kept []model.ComputedMetric
	for _, m := range in.Metrics {
		switch m.ID {
		case "cogs_avg_monthly", "cogs_pct", "gross_margin_pct":
		default:
			kept = append(kept, m)
		}
	}
	in.Metrics = kept

	si, ok := New(in, Options{}).Score(initiative("supplier", model.InitiativeCost))
	require.True(t, ok)
	assert.InDelta(t, 1.0/3, si.EvidenceStrength, 1e-3)
	assert.Equal(t, model.GapAssumed, si.Gap.Type)
	assert.InDelta(t, 0.3, si.GapMagnitude, 1e-9)
	assert.Contains(t, si.DataGaps, limitedEvidenceMessage)

	si, ok = New(in, Options{}).Score(initiative("pricing", model.InitiativePricing))
	require.True(t, ok)
	assert.Contains(t, si.DataGaps, "Gross margin not available - need COGS data")
}

func TestScore_PricingNoControl(t *testing.T) {
	opts := Options{Constraints: Constraints{PricingControl: PricingNoControl}}
	si, ok := New(baseInputs(), opts).Score(initiative("pricing", model.InitiativePricing))
	require.True(t, ok)
	assert.Equal(t, model.EffortLarge, si.Effort)
	assert.InDelta(t, 0.2, si.EffortScore, 1e-9)
}

func TestScore_Boost(t *testing.T) {
	plain, ok := New(baseInputs(), Options{}).Score(initiative("labor", model.InitiativeLabor))
	require.True(t, ok)
	boosted, ok := New(baseInputs(), Options{Boosts: []string{"labor"}}).Score(initiative("labor", model.InitiativeLabor))
	require.True(t, ok)

	assert.InDelta(t, min(1, plain.PriorityScore+BoostAmount), boosted.PriorityScore, 1e-9)
	_, ok = boosted.Component(model.ComponentBoost)
	assert.True(t, ok)
}

func TestScore_Specifics(t *testing.T) {
	in := baseInputs()
	in.Breakdowns = []model.CategoryBreakdown{
		{
			Field:          "category",
			TopContributor: "food",
			Concentration:  0.5,
			Entries: []model.BreakdownEntry{
				{Name: "food", Value: 50}, {Name: "drinks", Value: 20}, {Name: "dessert", Value: 10},
				{Name: "catering", Value: 8}, {Name: "merch", Value: 7}, {Name: "other", Value: 5},
			},
		},
		{Field: "day_of_week", TopContributor: "Saturday", Entries: []model.BreakdownEntry{{Name: "Saturday", Value: 10}}},
	}

	si, ok := New(in, Options{}).Score(initiative("labor", model.InitiativeLabor))
	require.True(t, ok)
	sp := si.Specifics
	assert.Equal(t, "2024-01 to 2024-06", sp.AnalysisPeriod)
	assert.Equal(t, 6, sp.MonthsAnalyzed)
	assert.Equal(t, "2024-04", sp.PeakLaborMonth)
	require.NotNil(t, sp.PeakLaborValue)
	assert.Equal(t, 33000.0, *sp.PeakLaborValue)
	assert.Equal(t, "Low correlation suggests labor doesn't track revenue well", sp.CorrelationInsight)
	assert.Len(t, sp.RevenueCategories, 5)
	assert.Equal(t, "food", sp.TopCategory)
	assert.Equal(t, "Saturday", sp.BestDay)
	assert.Empty(t, sp.PeakRevenueMonth)

	assert.Equal(t, []string{
		"Hourly labor data would enable shift-level optimization",
		"Role/position breakdown would identify specific overstaffing",
	}, si.DataGaps)
}

func TestScoreAll_FiltersAndRanks(t *testing.T) {
	catalog := []model.Initiative{
		initiative("labor", model.InitiativeLabor),
		initiative("pricing", model.InitiativePricing),
		initiative("blocked", model.InitiativeCost),
		{ID: "long_history", Title: "x", Type: model.InitiativeThroughput, Eligibility: model.Eligibility{MinMonths: 12}},
		{ID: "needs_labor", Title: "x", Type: model.InitiativeLabor, Eligibility: model.Eligibility{RequiresData: []model.PackType{model.PackLabor}}},
		initiative("waste", model.InitiativeWaste),
	}

	scored := New(baseInputs(), Options{Blacklist: []string{"blocked"}}).ScoreAll(catalog)
	got := map[string]bool{}
	for i, si := range scored {
		got[si.ID] = true
		assert.Equal(t, i+1, si.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, scored[i-1].PriorityScore, si.PriorityScore)
		}
	}
	assert.True(t, got["labor"])
	assert.True(t, got["pricing"])
	assert.True(t, got["waste"])
	assert.False(t, got["blocked"])
	assert.False(t, got["long_history"])
	assert.False(t, got["needs_labor"])
}

func TestScoreAll_Deterministic(t *testing.T) {
	catalog := reference.DefaultCatalog()
	first := New(baseInputs(), Options{}).ScoreAll(catalog)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, New(baseInputs(), Options{}).ScoreAll(catalog))
	}
}

func TestRank_StableTies(t *testing.T) {
	scored := []model.ScoredInitiative{
		{ID: "a", PriorityScore: 0.5},
		{ID: "b", PriorityScore: 0.7},
		{ID: "c", PriorityScore: 0.5},
	}
	Rank(scored)
	assert.Equal(t, "b", scored[0].ID)
	assert.Equal(t, "a", scored[1].ID)
	assert.Equal(t, "c", scored[2].ID)
	assert.Equal(t, 3, scored[2].Rank)
}

func TestPatternSupports(t *testing.T) {
	tests := []struct {
		pattern model.PatternInsight
		typ     model.InitiativeType
		want    bool
	}{
		{model.PatternInsight{ID: "labor_high_volatility", Type: model.PatternVolatility}, model.InitiativeLabor, true},
		{model.PatternInsight{ID: "revenue_high_volatility", Type: model.PatternVolatility}, model.InitiativeLabor, false},
		{model.PatternInsight{ID: "revenue_trend_pattern", Type: model.PatternTrend}, model.InitiativePricing, true},
		{model.PatternInsight{ID: "revenue_trend_pattern", Type: model.PatternTrend}, model.InitiativeThroughput, true},
		{model.PatternInsight{ID: "revenue_seasonality", Type: model.PatternSeasonality}, model.InitiativeLabor, true},
		{model.PatternInsight{ID: "revenue_seasonality", Type: model.PatternSeasonality}, model.InitiativeWaste, false},
		{model.PatternInsight{ID: "day_of_week_pattern", Type: model.PatternCycle}, model.InitiativeThroughput, true},
		{model.PatternInsight{ID: "day_of_week_pattern", Type: model.PatternCycle}, model.InitiativePricing, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern.ID+"/"+string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, PatternSupports(tt.pattern, tt.typ))
		})
	}
}
