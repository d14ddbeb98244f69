// Package model defines the core data types shared across the analytics engine.
package model

import (
	"sort"
	"time"
)

// PackType identifies the kind of source table a dataset carries.
type PackType string

// Supported data packs.
const (
	PackPNL     PackType = "PNL"
	PackRevenue PackType = "REVENUE"
	PackLabor   PackType = "LABOR"
)

// Canonical column names produced by the normalization layer.
const (
	ColRevenue       = "revenue_total"
	ColLabor         = "labor_total"
	ColCOGS          = "cogs"
	ColRent          = "rent"
	ColUtilities     = "utilities"
	ColMarketing     = "marketing"
	ColOtherExpenses = "other_expenses"
	ColAmount        = "amount"
)

// SeriesDef describes a canonical monthly series and the prefix used for
// the identifiers of metrics derived from it.
type SeriesDef struct {
	Prefix  string
	Column  string
	Label   string
	Expense bool
}

// CanonicalSeries lists every series the metrics engine knows about, in
// reporting order.
var CanonicalSeries = []SeriesDef{
	{Prefix: "revenue", Column: ColRevenue, Label: "Revenue"},
	{Prefix: "labor", Column: ColLabor, Label: "Labor Cost", Expense: true},
	{Prefix: "cogs", Column: ColCOGS, Label: "COGS", Expense: true},
	{Prefix: "rent", Column: ColRent, Label: "Rent", Expense: true},
	{Prefix: "utilities", Column: ColUtilities, Label: "Utilities", Expense: true},
	{Prefix: "marketing", Column: ColMarketing, Label: "Marketing", Expense: true},
	{Prefix: "other_expenses", Column: ColOtherExpenses, Label: "Other Expenses", Expense: true},
}

// ExpenseColumns returns the canonical expense columns.
func ExpenseColumns() []string {
	var cols []string
	for _, s := range CanonicalSeries {
		if s.Expense {
			cols = append(cols, s.Column)
		}
	}
	return cols
}

// SeriesFor returns the series definition for a column.
func SeriesFor(column string) (SeriesDef, bool) {
	for _, s := range CanonicalSeries {
		if s.Column == column {
			return s, true
		}
	}
	return SeriesDef{}, false
}

// Row is one record of a source table. A column missing from Values is a
// null cell.
type Row struct {
	Month    Month              `json:"month,omitempty" yaml:"month,omitempty"`
	Date     time.Time          `json:"transaction_date,omitempty" yaml:"transaction_date,omitempty"`
	Values   map[string]float64 `json:"values" yaml:"values"`
	Category string             `json:"category,omitempty" yaml:"category,omitempty"`
}

// Period returns the month the row belongs to. Transaction-level rows
// without an explicit month fall into the month of their date.
func (r Row) Period() Month {
	if !r.Month.IsZero() {
		return r.Month
	}
	return MonthOf(r.Date)
}

// Value returns the value for a column and whether it is present.
func (r Row) Value(column string) (float64, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Table is a single source table tagged with its pack type.
type Table struct {
	Pack PackType `json:"pack" yaml:"pack"`
	Rows []Row    `json:"rows" yaml:"rows"`
}

// HasMonthColumn reports whether any row can be placed on the monthly axis.
func (t Table) HasMonthColumn() bool {
	for _, r := range t.Rows {
		if !r.Period().IsZero() {
			return true
		}
	}
	return false
}

// Columns returns the sorted union of value columns across rows.
func (t Table) Columns() []string {
	seen := make(map[string]bool)
	for _, r := range t.Rows {
		for col := range r.Values {
			seen[col] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Dataset is the normalized input to an analysis run. Table order is
// source precedence: earlier tables win column collisions.
type Dataset struct {
	Tables []Table `json:"tables" yaml:"tables"`
}

// Table returns the first table of the given pack.
func (d Dataset) Table(pack PackType) (Table, bool) {
	for _, t := range d.Tables {
		if t.Pack == pack {
			return t, true
		}
	}
	return Table{}, false
}

// Has reports whether a table of the given pack is present.
func (d Dataset) Has(pack PackType) bool {
	_, ok := d.Table(pack)
	return ok
}

// Packs returns the pack types in input order without duplicates.
func (d Dataset) Packs() []PackType {
	seen := make(map[PackType]bool)
	var packs []PackType
	for _, t := range d.Tables {
		if !seen[t.Pack] {
			seen[t.Pack] = true
			packs = append(packs, t.Pack)
		}
	}
	return packs
}
