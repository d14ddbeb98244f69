// Package panel merges per-source tables into a single month-indexed panel.
package panel

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/model"
)

// Conflict records a cell where two sources disagreed on a column value.
// The earlier source's value is kept.
type Conflict struct {
	Column       string         `json:"column"`
	Month        model.Month    `json:"month"`
	Kept         model.PackType `json:"kept"`
	Dropped      model.PackType `json:"dropped"`
	KeptValue    float64        `json:"kept_value"`
	DroppedValue float64        `json:"dropped_value"`
}

// Panel is a month-indexed table with one row per month present in any
// source. Months are strictly ascending and unique; absent cells are null.
// A Panel is read-only after Build returns.
type Panel struct {
	cells     map[string][]float64
	sources   map[string][]model.PackType
	rowCounts map[model.PackType]int
	months    []model.Month
	columns   []string
	packs     []model.PackType
	conflicts []Conflict
}

type monthlyTable struct {
	sums  map[model.Month]map[string]float64
	pack  model.PackType
	cols  []string
	month []model.Month
}

// Build aggregates each table to monthly sums and outer-joins them on month.
// Tables without any month or transaction date are ignored. When two tables
// share a column, the earlier table's value wins for months where it has
// one; later tables only fill months the earlier ones left null.
func Build(ds model.Dataset) *Panel {
	p := &Panel{
		cells:     make(map[string][]float64),
		sources:   make(map[string][]model.PackType),
		rowCounts: make(map[model.PackType]int),
		packs:     ds.Packs(),
	}

	var tables []monthlyTable
	monthSet := make(map[model.Month]bool)
	for _, t := range ds.Tables {
		p.rowCounts[t.Pack] += len(t.Rows)
		if !t.HasMonthColumn() {
			slog.Debug("Skipping table without month column", "pack", t.Pack, "rows", len(t.Rows))
			continue
		}
		mt := aggregateMonthly(t)
		for _, m := range mt.month {
			monthSet[m] = true
		}
		tables = append(tables, mt)
	}

	p.months = make([]model.Month, 0, len(monthSet))
	for m := range monthSet {
		p.months = append(p.months, m)
	}
	sort.Slice(p.months, func(i, j int) bool { return p.months[i].Before(p.months[j]) })

	index := make(map[model.Month]int, len(p.months))
	for i, m := range p.months {
		index[m] = i
	}

	owner := make(map[string][]model.PackType)
	for _, mt := range tables {
		for _, col := range mt.cols {
			cells, exists := p.cells[col]
			if !exists {
				cells = nullColumn(len(p.months))
				p.cells[col] = cells
				p.columns = append(p.columns, col)
				owner[col] = make([]model.PackType, len(p.months))
			}
			contributed := false
			for _, m := range mt.month {
				v, ok := mt.sums[m][col]
				if !ok {
					continue
				}
				i := index[m]
				if math.IsNaN(cells[i]) {
					cells[i] = v
					owner[col][i] = mt.pack
					contributed = true
					continue
				}
				if cells[i] != v {
					p.conflicts = append(p.conflicts, Conflict{
						Column:       col,
						Month:        m,
						Kept:         owner[col][i],
						Dropped:      mt.pack,
						KeptValue:    cells[i],
						DroppedValue: v,
					})
				}
			}
			if contributed && !containsPack(p.sources[col], mt.pack) {
				p.sources[col] = append(p.sources[col], mt.pack)
			}
		}
	}

	if len(p.conflicts) > 0 {
		slog.Debug("Resolved column conflicts with first-source precedence", "conflicts", len(p.conflicts))
	}
	slog.Debug("Built monthly panel", "months", len(p.months), "columns", len(p.columns))
	return p
}

func aggregateMonthly(t model.Table) monthlyTable {
	mt := monthlyTable{
		pack: t.Pack,
		sums: make(map[model.Month]map[string]float64),
	}
	colSet := make(map[string]bool)
	for _, r := range t.Rows {
		m := r.Period()
		if m.IsZero() {
			continue
		}
		bucket, ok := mt.sums[m]
		if !ok {
			bucket = make(map[string]float64)
			mt.sums[m] = bucket
			mt.month = append(mt.month, m)
		}
		for col, v := range r.Values {
			if math.IsNaN(v) {
				continue
			}
			bucket[col] += v
			colSet[col] = true
		}
	}
	for col := range colSet {
		mt.cols = append(mt.cols, col)
	}
	sort.Strings(mt.cols)
	return mt
}

func nullColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}

func containsPack(packs []model.PackType, p model.PackType) bool {
	for _, x := range packs {
		if x == p {
			return true
		}
	}
	return false
}

// Len returns the number of months in the panel.
func (p *Panel) Len() int { return len(p.months) }

// IsEmpty reports whether the panel has no months.
func (p *Panel) IsEmpty() bool { return len(p.months) == 0 }

// Months returns the panel's month index.
func (p *Panel) Months() []model.Month {
	return append([]model.Month(nil), p.months...)
}

// Columns returns the panel's columns in order of first appearance.
func (p *Panel) Columns() []string {
	return append([]string(nil), p.columns...)
}

// Has reports whether the panel carries a column.
func (p *Panel) Has(column string) bool {
	_, ok := p.cells[column]
	return ok
}

// Value returns the cell for column at month.
func (p *Panel) Value(column string, month model.Month) (float64, bool) {
	cells, ok := p.cells[column]
	if !ok {
		return 0, false
	}
	for i, m := range p.months {
		if m == month {
			if math.IsNaN(cells[i]) {
				return 0, false
			}
			return cells[i], true
		}
	}
	return 0, false
}

// Series returns the non-null values of a column in month order.
func (p *Panel) Series(column string) Series {
	s := Series{Column: column}
	cells, ok := p.cells[column]
	if !ok {
		return s
	}
	for i, v := range cells {
		if math.IsNaN(v) {
			continue
		}
		s.Months = append(s.Months, p.months[i])
		s.Values = append(s.Values, v)
	}
	return s
}

// NonNullCount returns the number of non-null cells in a column.
func (p *Panel) NonNullCount(column string) int {
	n := 0
	for _, v := range p.cells[column] {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Conflicts returns the cells where a later source disagreed with an
// earlier one.
func (p *Panel) Conflicts() []Conflict {
	return append([]Conflict(nil), p.conflicts...)
}

// Packs returns the pack types present in the input dataset.
func (p *Panel) Packs() []model.PackType {
	return append([]model.PackType(nil), p.packs...)
}

// HasPack reports whether the input dataset carried a pack.
func (p *Panel) HasPack(pack model.PackType) bool {
	return containsPack(p.packs, pack)
}

// HasRows reports whether the input dataset carried a non-empty table of
// the given pack.
func (p *Panel) HasRows(pack model.PackType) bool {
	return p.rowCounts[pack] > 0
}

// Sources returns the packs that contributed values to a column.
func (p *Panel) Sources(column string) []model.PackType {
	return append([]model.PackType(nil), p.sources[column]...)
}

// DatasetLabel names the packs behind the given columns, such as
// "PNL/REVENUE". It falls back to "PANEL" when no source is known.
func (p *Panel) DatasetLabel(columns ...string) string {
	var packs []model.PackType
	for _, col := range columns {
		for _, src := range p.sources[col] {
			if !containsPack(packs, src) {
				packs = append(packs, src)
			}
		}
	}
	if len(packs) == 0 {
		return "PANEL"
	}
	names := make([]string, len(packs))
	for i, pk := range packs {
		names[i] = string(pk)
	}
	return strings.Join(names, "/")
}
