package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ledgerlens/internal/model"
)

func monthRow(month string, values map[string]float64) model.Row {
	return model.Row{Month: model.MustParseMonth(month), Values: values}
}

func TestBuild_DisjointMonthsUnion(t *testing.T) {
	ds := model.Dataset{Tables: []model.Table{
		{Pack: model.PackPNL, Rows: []model.Row{
			monthRow("2024-01", map[string]float64{model.ColRevenue: 100}),
			monthRow("2024-02", map[string]float64{model.ColRevenue: 110}),
		}},
		{Pack: model.PackLabor, Rows: []model.Row{
			monthRow("2024-03", map[string]float64{model.ColLabor: 30}),
			monthRow("2024-04", map[string]float64{model.ColLabor: 31}),
		}},
	}}

	p := Build(ds)

	require.Equal(t, 4, p.Len())
	assert.Equal(t, []string{model.ColRevenue, model.ColLabor}, p.Columns())
	assert.Equal(t, "2024-01", p.Months()[0].String())
	assert.Equal(t, "2024-04", p.Months()[3].String())

	_, ok := p.Value(model.ColRevenue, model.MustParseMonth("2024-03"))
	assert.False(t, ok, "months from other sources stay null")

	labor := p.Series(model.ColLabor)
	assert.Equal(t, []float64{30, 31}, labor.Values)
	assert.Equal(t, "LABOR", p.DatasetLabel(model.ColLabor))
}

func TestBuild_FirstSourceWinsOnOverlap(t *testing.T) {
	ds := model.Dataset{Tables: []model.Table{
		{Pack: model.PackPNL, Rows: []model.Row{
			monthRow("2024-01", map[string]float64{model.ColRevenue: 100}),
			monthRow("2024-02", map[string]float64{model.ColLabor: 5}),
		}},
		{Pack: model.PackRevenue, Rows: []model.Row{
			monthRow("2024-01", map[string]float64{model.ColRevenue: 999}),
			monthRow("2024-02", map[string]float64{model.ColRevenue: 120}),
		}},
	}}

	p := Build(ds)

	jan, ok := p.Value(model.ColRevenue, model.MustParseMonth("2024-01"))
	require.True(t, ok)
	assert.Equal(t, 100.0, jan, "earlier source keeps its value")

	feb, ok := p.Value(model.ColRevenue, model.MustParseMonth("2024-02"))
	require.True(t, ok)
	assert.Equal(t, 120.0, feb, "later source fills months the earlier one left null")

	conflicts := p.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, Conflict{
		Column:       model.ColRevenue,
		Month:        model.MustParseMonth("2024-01"),
		Kept:         model.PackPNL,
		Dropped:      model.PackRevenue,
		KeptValue:    100,
		DroppedValue: 999,
	}, conflicts[0])
	assert.Equal(t, "PNL/REVENUE", p.DatasetLabel(model.ColRevenue))

	again := Build(ds)
	assert.Equal(t, p.Series(model.ColRevenue), again.Series(model.ColRevenue))
}

func TestBuild_AggregatesTransactionsToMonthlySums(t *testing.T) {
	day := func(d string) time.Time {
		ts, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		return ts
	}
	ds := model.Dataset{Tables: []model.Table{
		{Pack: model.PackRevenue, Rows: []model.Row{
			{Date: day("2024-01-03"), Category: "food", Values: map[string]float64{model.ColAmount: 40}},
			{Date: day("2024-01-20"), Category: "drinks", Values: map[string]float64{model.ColAmount: 60}},
			{Date: day("2024-02-11"), Category: "food", Values: map[string]float64{model.ColAmount: 75}},
		}},
	}}

	p := Build(ds)

	s := p.Series(model.ColAmount)
	assert.Equal(t, []float64{100, 75}, s.Values)
	assert.Equal(t, []string{"2024-01", "2024-02"}, s.MonthStrings())
}

func TestBuild_MonthWithoutValuesStaysNull(t *testing.T) {
	ds := model.Dataset{Tables: []model.Table{
		{Pack: model.PackPNL, Rows: []model.Row{
			monthRow("2024-01", map[string]float64{model.ColRevenue: 100, model.ColCOGS: 30}),
			monthRow("2024-02", map[string]float64{model.ColRevenue: 100}),
		}},
	}}

	p := Build(ds)

	_, ok := p.Value(model.ColCOGS, model.MustParseMonth("2024-02"))
	assert.False(t, ok)
	assert.Equal(t, 1, p.NonNullCount(model.ColCOGS))
	assert.InDelta(t, 0.75, p.Completeness(), 1e-9)
}

func TestBuild_EmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		ds   model.Dataset
	}{
		{name: "no tables", ds: model.Dataset{}},
		{name: "no month column", ds: model.Dataset{Tables: []model.Table{
			{Pack: model.PackPNL, Rows: []model.Row{{Values: map[string]float64{model.ColRevenue: 10}}}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.ds)

			assert.True(t, p.IsEmpty())
			assert.Empty(t, p.Columns())
			assert.Equal(t, 0, p.Series(model.ColRevenue).Len())
			assert.Equal(t, 0.0, p.Completeness())

			cov := p.Coverage()
			assert.Equal(t, 0, cov.Months)
			assert.Empty(t, cov.Gaps)
		})
	}
}

func TestPanel_CoverageGaps(t *testing.T) {
	ds := model.Dataset{Tables: []model.Table{
		{Pack: model.PackPNL, Rows: []model.Row{
			monthRow("2024-01", map[string]float64{model.ColRevenue: 1}),
			monthRow("2024-02", map[string]float64{model.ColRevenue: 1}),
			monthRow("2024-06", map[string]float64{model.ColRevenue: 1}),
		}},
	}}

	cov := Build(ds).Coverage()

	assert.Equal(t, 3, cov.Months)
	assert.Equal(t, "2024-01", cov.Start.String())
	assert.Equal(t, "2024-06", cov.End.String())
	require.Len(t, cov.Gaps, 1)
	assert.Equal(t, MonthGap{
		After:         model.MustParseMonth("2024-02"),
		Before:        model.MustParseMonth("2024-06"),
		MissingMonths: 3,
	}, cov.Gaps[0])
	assert.Equal(t, []model.PackType{model.PackPNL}, cov.PacksAvailable)
}

func TestPanel_Quality(t *testing.T) {
	ds := model.Dataset{Tables: []model.Table{
		{Pack: model.PackPNL, Rows: []model.Row{
			monthRow("2024-01", map[string]float64{model.ColRevenue: 100, model.ColLabor: 30}),
			monthRow("2024-02", map[string]float64{model.ColRevenue: 100}),
			monthRow("2024-03", map[string]float64{model.ColRevenue: 100}),
		}},
		{Pack: model.PackRevenue, Rows: []model.Row{{Category: "unplaced"}}},
	}}

	q := Build(ds).Quality()

	assert.Equal(t, 3, q.PanelRows)
	assert.Equal(t, 2, q.PanelColumns)
	assert.InDelta(t, 0.667, q.OverallCompleteness, 1e-9)
	assert.Equal(t, 1.0, q.ColumnCompleteness[model.ColRevenue])
	assert.Equal(t, 0.333, q.ColumnCompleteness[model.ColLabor])
	assert.Equal(t, 3, q.PackRowCounts[model.PackPNL])
	assert.Equal(t, 1, q.PackRowCounts[model.PackRevenue])
}

func TestAlign_InnerJoin(t *testing.T) {
	left := Series{
		Months: []model.Month{model.MustParseMonth("2024-01"), model.MustParseMonth("2024-02"), model.MustParseMonth("2024-03")},
		Values: []float64{1, 2, 3},
	}
	right := Series{
		Months: []model.Month{model.MustParseMonth("2024-02"), model.MustParseMonth("2024-03"), model.MustParseMonth("2024-04")},
		Values: []float64{20, 30, 40},
	}

	a := Align(left, right)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []float64{2, 3}, a.Left)
	assert.Equal(t, []float64{20, 30}, a.Right)
	assert.Equal(t, "2024-03", a.TimeRange().End.String())
}
