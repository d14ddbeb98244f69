package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/testutil"
)

func input(start string, cols map[string][]float64) Input {
	ds := testutil.MonthlyDataset(model.PackPNL, start, cols)
	return Input{Panel: panel.Build(ds), Dataset: ds}
}

func metricByID(r Result, id string) (model.ComputedMetric, bool) {
	for _, m := range r.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return model.ComputedMetric{}, false
}

func patternByID(r Result, id string) (model.PatternInsight, bool) {
	for _, p := range r.Patterns {
		if p.ID == id {
			return p, true
		}
	}
	return model.PatternInsight{}, false
}

func TestTrendDetector_Direction(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		direction string
		positive  bool
	}{
		{name: "increasing", values: []float64{100, 110, 120, 130, 140, 150}, direction: "increasing", positive: true},
		{name: "decreasing", values: []float64{150, 140, 130, 120, 110, 100}, direction: "decreasing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := TrendDetector{}.Detect(input("2024-01", map[string][]float64{model.ColRevenue: tt.values}))

			m, ok := metricByID(r, "revenue_trend")
			require.True(t, ok)
			assert.Equal(t, tt.positive, m.Value > 0)
			assert.Equal(t, model.UnitPctPerMonth, m.Unit)
			assert.Equal(t, 0.9, m.Confidence)
			assert.Contains(t, m.Chain.Computation(), "direction="+tt.direction)

			p, ok := patternByID(r, "revenue_trend_pattern")
			require.True(t, ok, "a perfect fit at 8%/month is a pattern")
			assert.Equal(t, tt.direction, p.Specifics["direction"])
			assert.Equal(t, 1.0, p.Strength)
			assert.Equal(t, model.PatternTrend, p.Type)
		})
	}
}

func TestTrendDetector_NoisyRevenueScenario(t *testing.T) {
	in := input("2024-01", map[string][]float64{
		model.ColRevenue: {100000, 105000, 98000, 110000, 102000, 108000},
	})

	r := TrendDetector{}.Detect(in)

	m, ok := metricByID(r, "revenue_trend")
	require.True(t, ok)
	// slope 1228.6 / mean 103833 is just over the +1%/month band.
	assert.InDelta(t, 1.18, m.Value, 0.01)
	assert.Equal(t, "increasing", TrendDirection(m.Value))
	assert.Empty(t, r.Patterns, "rate below 2%/month is not a pattern")
}

func TestTrendDirection_Band(t *testing.T) {
	assert.Equal(t, "stable", TrendDirection(0.99))
	assert.Equal(t, "stable", TrendDirection(-1))
	assert.Equal(t, "increasing", TrendDirection(1.01))
	assert.Equal(t, "decreasing", TrendDirection(-1.5))
}

func TestTrendDetector_TooFewPoints(t *testing.T) {
	r := TrendDetector{}.Detect(input("2024-01", map[string][]float64{model.ColRevenue: {1, 2}}))
	assert.Empty(t, r.Metrics)
}

func TestVolatilityDetector_CompareSeries(t *testing.T) {
	calm := VolatilityDetector{}.Detect(input("2024-01", map[string][]float64{model.ColRevenue: {90, 110, 90, 110}}))
	wild := VolatilityDetector{}.Detect(input("2024-01", map[string][]float64{model.ColRevenue: {50, 150, 50, 150}}))

	a, ok := metricByID(calm, "revenue_volatility")
	require.True(t, ok)
	b, ok := metricByID(wild, "revenue_volatility")
	require.True(t, ok)

	assert.Less(t, a.Value, b.Value)
	assert.Empty(t, calm.Patterns)

	p, ok := patternByID(wild, "revenue_high_volatility")
	require.True(t, ok)
	assert.Equal(t, "volatile", p.Specifics["interpretation"])
	assert.Equal(t, model.PatternVolatility, p.Type)
}

func TestVolatilityBucket(t *testing.T) {
	assert.Equal(t, "very_stable", VolatilityBucket(0))
	assert.Equal(t, "stable", VolatilityBucket(0.1))
	assert.Equal(t, "moderate", VolatilityBucket(0.25))
	assert.Equal(t, "volatile", VolatilityBucket(0.3))
}

func TestSeasonalityDetector(t *testing.T) {
	values := testutil.Repeat(100, 12)
	values[11] = 200
	r := SeasonalityDetector{}.Detect(input("2023-01", map[string][]float64{model.ColRevenue: values}))

	p, ok := patternByID(r, "revenue_seasonality")
	require.True(t, ok)
	assert.Equal(t, "Dec", p.Specifics["best_month"])
	assert.Equal(t, "Jan", p.Specifics["worst_month"])
	assert.Equal(t, "Revenue shows seasonality: Dec is strongest (+85%), Jan is weakest (-8%)", p.Description)
	assert.Equal(t, 0.92, p.Strength)
	assert.Equal(t, "PNL", p.Chain.Dataset())
}

func TestSeasonalityDetector_NoisyRevenueScenario(t *testing.T) {
	r := SeasonalityDetector{}.Detect(input("2024-01", map[string][]float64{
		model.ColRevenue: {100000, 105000, 98000, 110000, 102000, 108000},
	}))
	assert.Empty(t, r.Patterns)
}

func TestSeasonalityDetector_NeedsThreeCalendarMonths(t *testing.T) {
	ds := model.Dataset{Tables: []model.Table{{Pack: model.PackPNL, Rows: []model.Row{
		{Month: model.MustParseMonth("2021-01"), Values: map[string]float64{model.ColRevenue: 100}},
		{Month: model.MustParseMonth("2021-07"), Values: map[string]float64{model.ColRevenue: 300}},
		{Month: model.MustParseMonth("2022-01"), Values: map[string]float64{model.ColRevenue: 100}},
		{Month: model.MustParseMonth("2022-07"), Values: map[string]float64{model.ColRevenue: 300}},
		{Month: model.MustParseMonth("2023-01"), Values: map[string]float64{model.ColRevenue: 100}},
		{Month: model.MustParseMonth("2023-07"), Values: map[string]float64{model.ColRevenue: 300}},
	}}}}
	r := SeasonalityDetector{}.Detect(Input{Panel: panel.Build(ds), Dataset: ds})
	assert.Empty(t, r.Patterns)
}

func TestCorrelationDetector(t *testing.T) {
	revenue := []float64{100, 110, 120, 130, 140, 150}

	t.Run("weak", func(t *testing.T) {
		r := CorrelationDetector{}.Detect(input("2024-01", map[string][]float64{
			model.ColRevenue: revenue,
			model.ColLabor:   {30, 40, 30, 40, 30, 40},
		}))

		m, ok := metricByID(r, "labor_revenue_correlation")
		require.True(t, ok)
		assert.Equal(t, 0.293, m.Value)
		assert.Equal(t, 6, m.Chain.SampleSize())

		p, ok := patternByID(r, "labor_revenue_weak_correlation")
		require.True(t, ok)
		assert.Equal(t, 0.71, p.Strength)
		assert.Equal(t, model.PatternCorrelation, p.Type)
	})

	t.Run("strong", func(t *testing.T) {
		r := CorrelationDetector{}.Detect(input("2024-01", map[string][]float64{
			model.ColRevenue: revenue,
			model.ColLabor:   {30, 33, 36, 39, 42, 45},
		}))

		m, ok := metricByID(r, "labor_revenue_correlation")
		require.True(t, ok)
		assert.Equal(t, 1.0, m.Value)
		assert.Equal(t, 1.0, m.Confidence)
		assert.Empty(t, r.Patterns)
	})

	t.Run("too few shared months", func(t *testing.T) {
		r := CorrelationDetector{}.Detect(input("2024-01", map[string][]float64{
			model.ColRevenue: revenue,
			model.ColLabor:   {30, 33, 36, testutil.Null, testutil.Null, testutil.Null},
		}))
		assert.Empty(t, r.Metrics)
	})
}

func TestAnomalyDetector(t *testing.T) {
	values := testutil.Repeat(100, 12)
	values[11] = 200
	r := AnomalyDetector{}.Detect(input("2023-01", map[string][]float64{model.ColRevenue: values}))

	require.Len(t, r.Anomalies, 1)
	a := r.Anomalies[0]
	assert.Equal(t, "revenue_anomaly_2023_12", a.ID)
	assert.Equal(t, model.SeverityHigh, a.Severity)
	assert.Equal(t, model.ColRevenue, a.AffectedMetric)
	assert.Equal(t, []float64{200}, a.Values)
	assert.InDelta(t, 50.6, a.ExpectedRange.Low, 0.01)
	assert.InDelta(t, 166.07, a.ExpectedRange.High, 0.01)
	assert.Contains(t, a.Description, "Revenue in 2023-12 was above normal range")
	assert.Equal(t, "Investigate what happened in 2023-12 that caused revenue to be 92 above average", a.Recommendation)
	month, ok := a.Chain.Filter("month")
	require.True(t, ok)
	assert.Equal(t, "2023-12", month)
}

func TestFlatTwelveMonths(t *testing.T) {
	in := input("2023-01", map[string][]float64{
		model.ColRevenue: testutil.Repeat(50000, 12),
		model.ColLabor:   testutil.Repeat(15000, 12),
	})

	r := Run(in)

	vol, ok := metricByID(r, "revenue_volatility")
	require.True(t, ok)
	assert.Equal(t, 0.0, vol.Value)

	trend, ok := metricByID(r, "revenue_trend")
	require.True(t, ok)
	assert.Equal(t, 0.0, trend.Value)

	_, ok = metricByID(r, "labor_revenue_correlation")
	assert.False(t, ok, "zero variance has no correlation")
	assert.Empty(t, r.Anomalies)
	assert.Empty(t, r.Patterns)
}

func revenueTransactions() model.Dataset {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC) }
	rows := []model.Row{
		{Date: day(1), Category: "Food", Values: map[string]float64{model.ColAmount: 100}},
		{Date: day(2), Category: "Food", Values: map[string]float64{model.ColAmount: 100}},
		{Date: day(3), Category: "Drinks", Values: map[string]float64{model.ColAmount: 100}},
		{Date: day(4), Category: "Drinks", Values: map[string]float64{model.ColAmount: 100}},
		{Date: day(5), Category: "Food", Values: map[string]float64{model.ColAmount: 200}},
		{Date: day(6), Category: "Food", Values: map[string]float64{model.ColAmount: 300}},
		{Date: day(7), Category: "Merch", Values: map[string]float64{model.ColAmount: 100}},
	}
	return model.Dataset{Tables: []model.Table{{Pack: model.PackRevenue, Rows: rows}}}
}

func TestBreakdownDetector(t *testing.T) {
	r := BreakdownDetector{}.Detect(Input{Dataset: revenueTransactions()})

	require.Len(t, r.Breakdowns, 2)

	cat := r.Breakdowns[0]
	assert.Equal(t, "category", cat.Field)
	assert.Equal(t, "Food", cat.TopContributor)
	assert.Equal(t, []model.BreakdownEntry{
		{Name: "Food", Value: 700, Share: 0.7},
		{Name: "Drinks", Value: 200, Share: 0.2},
		{Name: "Merch", Value: 100, Share: 0.1},
	}, cat.Entries)
	assert.Equal(t, 1.0, cat.Concentration)
	assert.Equal(t, "category_breakdown", cat.EvidenceKey())

	dow := r.Breakdowns[1]
	assert.Equal(t, "day_of_week", dow.Field)
	assert.Equal(t, "Saturday", dow.TopContributor)
	require.Len(t, dow.Entries, 7)
	assert.Equal(t, "Monday", dow.Entries[0].Name)
	assert.Equal(t, "Sunday", dow.Entries[6].Name)

	p, ok := patternByID(r, "day_of_week_pattern")
	require.True(t, ok)
	assert.Equal(t, model.PatternCycle, p.Type)
	assert.Equal(t, "Saturday", p.Specifics["best_day"])
	assert.Equal(t, "Monday", p.Specifics["worst_day"])
	assert.Equal(t, 1.0, p.Strength)
}

func TestBreakdownDetector_FewDaysNoPattern(t *testing.T) {
	ds := revenueTransactions()
	ds.Tables[0].Rows = ds.Tables[0].Rows[:4]

	r := BreakdownDetector{}.Detect(Input{Dataset: ds})

	require.Len(t, r.Breakdowns, 2)
	assert.Empty(t, r.Patterns)
}

func TestRun_EmptyInput(t *testing.T) {
	r := Run(Input{Panel: panel.Build(model.Dataset{})})
	assert.Equal(t, Result{}, r)
}

func TestRun_Deterministic(t *testing.T) {
	in := input("2023-01", map[string][]float64{
		model.ColRevenue: {100, 130, 90, 160, 80, 170, 120, 110, 150, 95, 140, 300},
		model.ColLabor:   {30, 31, 30, 32, 30, 33, 31, 30, 32, 30, 31, 35},
	})
	assert.Equal(t, Run(in), Run(in))
}
