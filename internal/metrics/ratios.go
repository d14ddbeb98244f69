package metrics

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// ratioDef describes a cross-series ratio. The headline value is the mean of
// the per-month ratios over months where every column is present and the
// denominator is positive, never the ratio of sums.
type ratioDef struct {
	id          string
	label       string
	unit        string
	category    string
	columns     []string
	denominator int
	value       func(v []float64) float64
	computation string
	perMonth    func(v []float64) string
}

var ratioDefs = []ratioDef{
	{
		id:          "labor_pct",
		label:       "Labor as % of Revenue",
		unit:        model.UnitPercentage,
		category:    model.CategoryRatio,
		columns:     []string{model.ColLabor, model.ColRevenue},
		denominator: 1,
		value:       func(v []float64) float64 { return v[0] / v[1] * 100 },
		computation: "avg(labor/revenue × 100) over %d months",
		perMonth: func(v []float64) string {
			return fmt.Sprintf("labor(%.0f) / revenue(%.0f) × 100", v[0], v[1])
		},
	},
	{
		id:          "cogs_pct",
		label:       "COGS as % of Revenue",
		unit:        model.UnitPercentage,
		category:    model.CategoryRatio,
		columns:     []string{model.ColCOGS, model.ColRevenue},
		denominator: 1,
		value:       func(v []float64) float64 { return v[0] / v[1] * 100 },
		computation: "avg(cogs/revenue × 100) over %d months",
		perMonth: func(v []float64) string {
			return fmt.Sprintf("cogs(%.0f) / revenue(%.0f) × 100", v[0], v[1])
		},
	},
	{
		id:          "gross_margin_pct",
		label:       "Gross Margin %",
		unit:        model.UnitPercentage,
		category:    model.CategoryRatio,
		columns:     []string{model.ColRevenue, model.ColCOGS},
		denominator: 0,
		value:       func(v []float64) float64 { return (v[0] - v[1]) / v[0] * 100 },
		computation: "avg((revenue - cogs) / revenue × 100) over %d months",
		perMonth: func(v []float64) string {
			return fmt.Sprintf("(revenue(%.0f) - cogs(%.0f)) / revenue(%.0f) × 100", v[0], v[1], v[0])
		},
	},
	{
		id:          "prime_cost_pct",
		label:       "Prime Cost as % of Revenue",
		unit:        model.UnitPercentage,
		category:    model.CategoryRatio,
		columns:     []string{model.ColLabor, model.ColCOGS, model.ColRevenue},
		denominator: 2,
		value:       func(v []float64) float64 { return (v[0] + v[1]) / v[2] * 100 },
		computation: "avg((labor + cogs) / revenue × 100) over %d months",
	},
	{
		id:          "rent_pct",
		label:       "Rent as % of Revenue",
		unit:        model.UnitPercentage,
		category:    model.CategoryRatio,
		columns:     []string{model.ColRent, model.ColRevenue},
		denominator: 1,
		value:       func(v []float64) float64 { return v[0] / v[1] * 100 },
		computation: "avg(rent/revenue × 100) over %d months",
	},
	{
		id:          "revenue_per_labor_dollar",
		label:       "Revenue per Labor Dollar",
		unit:        model.UnitRatio,
		category:    model.CategoryEfficiency,
		columns:     []string{model.ColRevenue, model.ColLabor},
		denominator: 1,
		value:       func(v []float64) float64 { return v[0] / v[1] },
		computation: "avg(revenue/labor) over %d months",
	},
}

// RatioMetrics computes the cross-series ratios and the operating margin.
// Ratios with a per-month breakdown also emit one metric per valid month.
func RatioMetrics(p *panel.Panel) []model.ComputedMetric {
	var out []model.ComputedMetric
	for _, def := range ratioDefs {
		out = append(out, computeRatio(p, def)...)
	}
	if m, ok := operatingMargin(p); ok {
		out = append(out, m)
	}
	return out
}

func computeRatio(p *panel.Panel, def ratioDef) []model.ComputedMetric {
	months, rows := alignColumns(p, def.columns...)
	var (
		validMonths []model.Month
		validRows   [][]float64
		ratios      []float64
	)
	for i, row := range rows {
		if row[def.denominator] <= 0 {
			continue
		}
		validMonths = append(validMonths, months[i])
		validRows = append(validRows, row)
		ratios = append(ratios, def.value(row))
	}
	if len(ratios) == 0 {
		slog.Debug("Skipping ratio without valid months", "metric_id", def.id, "shared_months", len(months))
		return nil
	}

	n := len(ratios)
	dataset := p.DatasetLabel(def.columns...)
	tr := &model.TimeRange{Start: validMonths[0], End: validMonths[n-1]}
	out := []model.ComputedMetric{newMetric(metricSpec{
		id:       def.id,
		label:    def.label,
		unit:     def.unit,
		category: def.category,
		value:    stats.Round(stats.Mean(ratios), 2),
		conf:     scaled(0.5, n, ceilingAverage),
		evidence: model.EvidenceSpec{
			Dataset:     dataset,
			Columns:     def.columns,
			Computation: fmt.Sprintf(def.computation, n),
			SampleSize:  n,
			TimeRange:   tr,
			RawValues:   roundAll(ratios, 2),
		},
	})}

	if def.perMonth == nil {
		return out
	}
	for i, month := range validMonths {
		out = append(out, newMetric(metricSpec{
			id:       MonthlyRatioID(def.id, month),
			label:    fmt.Sprintf("%s in %s", monthlyLabel(def.label), month),
			unit:     def.unit,
			category: model.CategoryRatioMonthly,
			value:    stats.Round(ratios[i], 2),
			conf:     pointConfidence,
			evidence: model.EvidenceSpec{
				Dataset:     dataset,
				Columns:     def.columns,
				Filters:     monthFilter(month),
				Computation: def.perMonth(validRows[i]),
				SampleSize:  1,
				TimeRange:   &model.TimeRange{Start: month, End: month},
			},
		}))
	}
	return out
}

// MonthlyRatioID returns the id of a per-month ratio metric, such as
// labor_pct_2024_03.
func MonthlyRatioID(ratioID string, m model.Month) string {
	return ratioID + "_" + strings.ReplaceAll(m.String(), "-", "_")
}

func monthlyLabel(label string) string {
	if i := strings.Index(label, " as % of"); i > 0 {
		return label[:i] + " %"
	}
	return label
}

// operatingMargin is (revenue − Σ available expenses) / revenue averaged over
// months with positive revenue and at least one expense value.
func operatingMargin(p *panel.Panel) (model.ComputedMetric, bool) {
	expenseCols := make([]string, 0)
	for _, col := range model.ExpenseColumns() {
		if p.Has(col) {
			expenseCols = append(expenseCols, col)
		}
	}
	if len(expenseCols) == 0 {
		return model.ComputedMetric{}, false
	}

	var (
		months  []model.Month
		margins []float64
	)
	for _, m := range p.Months() {
		revenue, ok := p.Value(model.ColRevenue, m)
		if !ok || revenue <= 0 {
			continue
		}
		var expenses float64
		found := false
		for _, col := range expenseCols {
			if v, ok := p.Value(col, m); ok {
				expenses += v
				found = true
			}
		}
		if !found {
			continue
		}
		months = append(months, m)
		margins = append(margins, (revenue-expenses)/revenue*100)
	}
	if len(margins) == 0 {
		return model.ComputedMetric{}, false
	}

	n := len(margins)
	columns := append([]string{model.ColRevenue}, expenseCols...)
	return newMetric(metricSpec{
		id:       "operating_margin_pct",
		label:    "Average Operating Margin",
		unit:     model.UnitPercentage,
		category: model.CategoryProfitability,
		value:    stats.Round(stats.Mean(margins), 2),
		conf:     scaled(0.5, n, ceilingExpense),
		evidence: model.EvidenceSpec{
			Dataset:     p.DatasetLabel(columns...),
			Columns:     columns,
			Computation: fmt.Sprintf("avg((revenue - %s) / revenue × 100) over %d months", strings.Join(expenseCols, " - "), n),
			SampleSize:  n,
			TimeRange:   &model.TimeRange{Start: months[0], End: months[n-1]},
			RawValues:   roundAll(margins, 2),
		},
	}), true
}

// alignColumns returns the months where every column is non-null, with the
// values in column order.
func alignColumns(p *panel.Panel, columns ...string) ([]model.Month, [][]float64) {
	for _, col := range columns {
		if !p.Has(col) {
			return nil, nil
		}
	}
	var (
		months []model.Month
		rows   [][]float64
	)
	for _, m := range p.Months() {
		row := make([]float64, len(columns))
		complete := true
		for i, col := range columns {
			v, ok := p.Value(col, m)
			if !ok {
				complete = false
				break
			}
			row[i] = v
		}
		if complete {
			months = append(months, m)
			rows = append(rows, row)
		}
	}
	return months, rows
}
