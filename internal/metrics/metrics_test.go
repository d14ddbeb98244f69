package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/testutil"
)

func buildPanel(start string, pack model.PackType, cols map[string][]float64) *panel.Panel {
	return panel.Build(testutil.MonthlyDataset(pack, start, cols))
}

func find(t *testing.T, ms []model.ComputedMetric, id string) model.ComputedMetric {
	t.Helper()
	for _, m := range ms {
		if m.ID == id {
			return m
		}
	}
	require.Failf(t, "metric not found", "id %s", id)
	return model.ComputedMetric{}
}

func ids(ms []model.ComputedMetric) map[string]bool {
	out := make(map[string]bool, len(ms))
	for _, m := range ms {
		out[m.ID] = true
	}
	return out
}

func TestCompute_EmptyPanel(t *testing.T) {
	assert.Empty(t, Compute(panel.Build(model.Dataset{}), nil))
	assert.Empty(t, Compute(nil, nil))
}

func TestSeriesMetrics_ConstantSeries(t *testing.T) {
	const v = 12345.0
	for _, n := range []int{1, 3, 6, 12} {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = v
		}
		p := buildPanel("2024-01", model.PackPNL, map[string][]float64{model.ColRevenue: vals})
		ms := SeriesMetrics(p, model.CanonicalSeries[0])

		assert.Equal(t, v, find(t, ms, "revenue_avg_monthly").Value)
		assert.Equal(t, v*float64(n), find(t, ms, "revenue_total_period").Value)
		assert.Equal(t, v, find(t, ms, "revenue_median_monthly").Value)
		assert.Equal(t, 0.0, find(t, ms, "revenue_range").Value)
		assert.Equal(t, n >= 3, ids(ms)["revenue_annualized"], "annualized needs three months (n=%d)", n)
		assert.Equal(t, n >= 4, ids(ms)["revenue_iqr"], "quartiles need four months (n=%d)", n)
	}
}

func TestSeriesMetrics_EvidenceAndConfidence(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {100000, 105000, 98000, 110000, 102000, 108000},
	})
	ms := SeriesMetrics(p, model.CanonicalSeries[0])

	avg := find(t, ms, "revenue_avg_monthly")
	assert.Equal(t, "Average Monthly Revenue", avg.Label)
	assert.Equal(t, 103833.33, avg.Value)
	assert.Equal(t, 0.8, avg.Confidence)
	assert.Equal(t, "mean(6 monthly values)", avg.Chain.Computation())
	assert.Equal(t, "PNL", avg.Chain.Dataset())
	assert.Equal(t, 6, avg.Chain.SampleSize())
	tr, ok := avg.Chain.TimeRange()
	require.True(t, ok)
	assert.Equal(t, "2024-01", tr.Start.String())
	assert.Equal(t, "2024-06", tr.End.String())

	assert.Equal(t, 0.9, find(t, ms, "revenue_total_period").Confidence)

	peak := find(t, ms, "revenue_peak_month")
	assert.Equal(t, 110000.0, peak.Value)
	month, ok := peak.Chain.Filter("month")
	require.True(t, ok)
	assert.Equal(t, "2024-04", month)

	trough := find(t, ms, "revenue_trough_month")
	assert.Equal(t, 98000.0, trough.Value)
	assert.Equal(t, "min value in 2024-03", trough.Chain.Computation())

	assert.Equal(t, 12000.0, find(t, ms, "revenue_range").Value)

	annual := find(t, ms, "revenue_annualized")
	assert.Equal(t, 1246000.0, annual.Value)
	assert.Equal(t, 0.7, annual.Confidence)
	assert.Equal(t, "monthly_avg(103833) × 12", annual.Chain.Computation())
}

func TestSeriesMetrics_Quartiles(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{model.ColLabor: {40, 10, 30, 20}})
	ms := SeriesMetrics(p, model.CanonicalSeries[1])

	assert.Equal(t, 17.5, find(t, ms, "labor_p25").Value)
	assert.Equal(t, 32.5, find(t, ms, "labor_p75").Value)
	assert.Equal(t, 15.0, find(t, ms, "labor_iqr").Value)
	assert.Equal(t, model.CategoryLabor, find(t, ms, "labor_avg_monthly").Category)
}

func TestSeriesMetrics_ExpenseCeiling(t *testing.T) {
	vals := make([]float64, 12)
	for i := range vals {
		vals[i] = 5000
	}
	p := buildPanel("2023-01", model.PackPNL, map[string][]float64{model.ColRent: vals})
	ms := SeriesMetrics(p, model.CanonicalSeries[3])

	avg := find(t, ms, "rent_avg_monthly")
	assert.Equal(t, 0.85, avg.Confidence)
	assert.Equal(t, model.CategoryCost, avg.Category)
}

func TestRatioMetrics_LaborPercentScenario(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {100000, 105000, 98000, 110000, 102000, 108000},
		model.ColLabor:   {30000, 32000, 29000, 33000, 31000, 32000},
	})
	ms := RatioMetrics(p)

	laborPct := find(t, ms, "labor_pct")
	assert.InDelta(t, 30.0, laborPct.Value, 0.1)
	assert.Equal(t, model.CategoryRatio, laborPct.Category)
	assert.Equal(t, "avg(labor/revenue × 100) over 6 months", laborPct.Chain.Computation())
	assert.Len(t, laborPct.Chain.RawValues(), 6)

	monthly := find(t, ms, "labor_pct_2024_01")
	assert.Equal(t, 30.0, monthly.Value)
	assert.Equal(t, "Labor % in 2024-01", monthly.Label)
	assert.Equal(t, model.CategoryRatioMonthly, monthly.Category)
	assert.Equal(t, "labor(30000) / revenue(100000) × 100", monthly.Chain.Computation())
	assert.Equal(t, 1, monthly.Chain.SampleSize())

	rpl := find(t, ms, "revenue_per_labor_dollar")
	assert.InDelta(t, 3.33, rpl.Value, 0.02)

	got := ids(ms)
	assert.False(t, got["cogs_pct"], "no COGS means no COGS ratio")
	assert.False(t, got["gross_margin_pct"])
	assert.False(t, got["prime_cost_pct"])
}

func TestRatioMetrics_MeanOfMonthlyRatios(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {100, 300},
		model.ColCOGS:    {50, 60},
	})
	ms := RatioMetrics(p)

	// (50% + 20%) / 2, not 110/400.
	assert.Equal(t, 35.0, find(t, ms, "cogs_pct").Value)
	assert.Equal(t, 65.0, find(t, ms, "gross_margin_pct").Value)
	assert.Equal(t, 50.0, find(t, ms, "gross_margin_pct_2024_01").Value)
}

func TestRatioMetrics_SkipsNonPositiveDenominator(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {0, 100, testutil.Null, 200},
		model.ColLabor:   {10, 30, 40, 60},
	})
	ms := RatioMetrics(p)

	laborPct := find(t, ms, "labor_pct")
	assert.Equal(t, 30.0, laborPct.Value)
	assert.Equal(t, 2, laborPct.Chain.SampleSize())
	assert.False(t, ids(ms)["labor_pct_2024_01"])
	assert.False(t, ids(ms)["labor_pct_2024_03"])
}

func TestRatioMetrics_AllZeroRevenue(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {0, 0},
		model.ColLabor:   {10, 20},
	})
	got := ids(RatioMetrics(p))
	assert.False(t, got["labor_pct"])
	assert.False(t, got["operating_margin_pct"])
	assert.True(t, got["revenue_per_labor_dollar"], "labor is the denominator here")
}

func TestRatioMetrics_OperatingMargin(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {1000, 1000, 1000},
		model.ColLabor:   {300, 300, testutil.Null},
		model.ColRent:    {100, testutil.Null, testutil.Null},
	})
	ms := RatioMetrics(p)

	margin := find(t, ms, "operating_margin_pct")
	// 60% and 70%; the third month has no expenses.
	assert.Equal(t, 65.0, margin.Value)
	assert.Equal(t, 2, margin.Chain.SampleSize())
	assert.Equal(t, model.CategoryProfitability, margin.Category)
}

func TestChangeMetrics(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {100, 110, 99, 120},
		model.ColLabor:   {0, 50, 55},
	})
	ms := ChangeMetrics(p)

	avg := find(t, ms, "revenue_avg_mom_change")
	assert.InDelta(t, (10.0-10.0+21.2121)/3, avg.Value, 0.01)
	assert.Equal(t, 3, avg.Chain.SampleSize())

	inc := find(t, ms, "revenue_max_mom_increase")
	assert.Equal(t, 21.21, inc.Value)
	month, _ := inc.Chain.Filter("month")
	assert.Equal(t, "2024-04", month)

	dec := find(t, ms, "revenue_max_mom_decrease")
	assert.Equal(t, -10.0, dec.Value)
	month, _ = dec.Chain.Filter("month")
	assert.Equal(t, "2024-03", month)

	labor := find(t, ms, "labor_avg_mom_change")
	assert.Equal(t, 10.0, labor.Value, "transition from zero is skipped")
	assert.Equal(t, 1, labor.Chain.SampleSize())
	assert.False(t, ids(ms)["labor_max_mom_increase"], "extremes need three transitions")
}

func TestGrowthMetrics(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {100, 105, 121},
		model.ColLabor:   {0, 10, 20},
	})
	ms := GrowthMetrics(p)

	assert.Equal(t, 10.0, find(t, ms, "revenue_cmgr").Value)
	assert.Equal(t, 21.0, find(t, ms, "revenue_total_growth").Value)
	assert.False(t, ids(ms)["labor_cmgr"], "first value must be positive")
}

func TestSignalMetrics_MostRecentValidMonth(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {1000, 2000, 0},
		model.ColLabor:   {300, 500, 400},
		model.ColCOGS:    {testutil.Null, testutil.Null, testutil.Null},
	})
	signals := []model.Signal{
		{ID: "latest_labor_pct", Label: "Latest Labor %", Unit: model.UnitPercentage, Op: model.SignalRatio,
			Operands: []string{model.ColLabor, model.ColRevenue}, Scale: 100},
		{ID: "latest_gross_profit", Op: model.SignalDifference, Operands: []string{model.ColRevenue, model.ColCOGS}},
		{ID: "missing_operand", Op: model.SignalProduct, Operands: []string{model.ColRevenue, "covers"}},
	}

	ms := SignalMetrics(p, signals)

	require.Len(t, ms, 1)
	sig := ms[0]
	assert.Equal(t, "latest_labor_pct", sig.ID)
	assert.Equal(t, 25.0, sig.Value)
	assert.Equal(t, model.CategorySignal, sig.Category)
	assert.Equal(t, "labor_total(500) / revenue_total(2000) × 100", sig.Chain.Computation())
	month, _ := sig.Chain.Filter("month")
	assert.Equal(t, "2024-02", month)
}

func TestApplyBenchmarks(t *testing.T) {
	table := model.NewBenchmarkTable("restaurant", []model.Benchmark{
		{MetricID: "labor_pct", Value: 28, Unit: model.UnitPercentage, Source: "NRA", Confidence: 0.85},
	})
	ms := []model.ComputedMetric{
		{ID: "labor_pct", Value: 35, Category: model.CategoryRatio},
		{ID: "labor_pct", Value: 28.3, Category: model.CategoryRatio},
		{ID: "labor_pct", Value: 40, Category: model.CategoryRatioMonthly},
		{ID: "revenue_avg_monthly", Value: 1000, Category: model.CategoryRevenue},
	}

	got := ApplyBenchmarks(ms, table)

	require.Len(t, got, 4)
	assert.Equal(t, model.GapAbove, got[0].GapDirection)
	assert.InDelta(t, 7.0, *got[0].Gap, 1e-9)
	assert.Equal(t, "NRA", got[0].BenchmarkSource)
	assert.Equal(t, model.GapAt, got[1].GapDirection)
	assert.False(t, got[2].HasBenchmark(), "per-month metrics are not compared")
	assert.False(t, got[3].HasBenchmark())
	assert.False(t, ms[0].HasBenchmark(), "input is not modified")

	used := BenchmarksUsed(got, table)
	require.Len(t, used, 1)
	assert.Equal(t, "labor_pct", used[0].MetricID)
}

func TestCompute_Deterministic(t *testing.T) {
	p := buildPanel("2024-01", model.PackPNL, map[string][]float64{
		model.ColRevenue: {100000, 105000, 98000, 110000, 102000, 108000},
		model.ColLabor:   {30000, 32000, 29000, 33000, 31000, 32000},
		model.ColCOGS:    {31000, 33000, 30000, 34000, 31500, 33000},
	})

	first := Compute(p, nil)
	second := Compute(p, nil)
	assert.Equal(t, first, second)
	assert.True(t, ids(first)["prime_cost_pct"])
}
