// Package testutil provides shared builders for analysis test data.
//
// Example usage:
//
//	ds := testutil.NewDatasetBuilder().
//		WithMonthly(model.PackPNL, "2024-01", map[string][]float64{
//			model.ColRevenue: {100, 110, 120},
//			model.ColLabor:   {30, testutil.Null, 33},
//		}).
//		Build()
package testutil

import (
	"math"

	"github.com/Veraticus/ledgerlens/internal/model"
)

// Null marks a missing cell in column slices passed to the builders.
var Null = math.NaN()

// DatasetBuilder assembles a dataset table by table. Tables keep the order
// they were added in, which is panel precedence order.
type DatasetBuilder struct {
	tables []model.Table
}

// NewDatasetBuilder creates an empty builder.
func NewDatasetBuilder() *DatasetBuilder {
	return &DatasetBuilder{}
}

// WithMonthly adds a table whose columns are laid out on consecutive months
// from start.
func (b *DatasetBuilder) WithMonthly(pack model.PackType, start string, cols map[string][]float64) *DatasetBuilder {
	b.tables = append(b.tables, MonthlyTable(pack, start, cols))
	return b
}

// WithTable adds a prepared table.
func (b *DatasetBuilder) WithTable(table model.Table) *DatasetBuilder {
	b.tables = append(b.tables, table)
	return b
}

// Build returns the dataset.
func (b *DatasetBuilder) Build() model.Dataset {
	return model.Dataset{Tables: append([]model.Table(nil), b.tables...)}
}

// MonthlyTable lays columns out on consecutive months from start. NaN
// values are left out of the row.
func MonthlyTable(pack model.PackType, start string, cols map[string][]float64) model.Table {
	first := model.MustParseMonth(start)
	n := 0
	for _, vals := range cols {
		n = max(n, len(vals))
	}
	rows := make([]model.Row, n)
	for i := range rows {
		rows[i] = model.Row{Month: first.AddMonths(i), Values: map[string]float64{}}
		for col, vals := range cols {
			if i < len(vals) && !math.IsNaN(vals[i]) {
				rows[i].Values[col] = vals[i]
			}
		}
	}
	return model.Table{Pack: pack, Rows: rows}
}

// MonthlyDataset is a single-table dataset built with MonthlyTable.
func MonthlyDataset(pack model.PackType, start string, cols map[string][]float64) model.Dataset {
	return NewDatasetBuilder().WithMonthly(pack, start, cols).Build()
}

// Repeat returns n copies of v.
func Repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// FindMetric returns the metric with the given id.
func FindMetric(ms []model.ComputedMetric, id string) (model.ComputedMetric, bool) {
	for _, m := range ms {
		if m.ID == id {
			return m, true
		}
	}
	return model.ComputedMetric{}, false
}
