package pattern

import (
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

const (
	dayOfWeekMinDays = 5
	dayOfWeekSpread  = 0.3
	topN             = 3
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// BreakdownDetector groups revenue transactions by category and by weekday.
// It reads the dataset's REVENUE rows directly since the panel only holds
// monthly totals.
type BreakdownDetector struct{}

// Name implements Detector.
func (BreakdownDetector) Name() string { return "breakdown" }

// rowAmount prefers the transaction amount and falls back to the revenue
// column for pre-aggregated rows.
func rowAmount(r model.Row) (float64, bool) {
	if v, ok := r.Value(model.ColAmount); ok {
		return v, true
	}
	return r.Value(model.ColRevenue)
}

// Detect implements Detector.
func (BreakdownDetector) Detect(in Input) Result {
	var rows []model.Row
	for _, t := range in.Dataset.Tables {
		if t.Pack == model.PackRevenue {
			rows = append(rows, t.Rows...)
		}
	}
	var out Result
	if len(rows) == 0 {
		return out
	}
	if b, ok := categoryBreakdown(rows); ok {
		out.Breakdowns = append(out.Breakdowns, b)
	}
	if b, p, ok := dayOfWeekBreakdown(rows); ok {
		out.Breakdowns = append(out.Breakdowns, b)
		if p != nil {
			out.Patterns = append(out.Patterns, *p)
		}
	}
	return out
}

func share(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return stats.Round(v/total, 3)
}

func categoryBreakdown(rows []model.Row) (model.CategoryBreakdown, bool) {
	totals := make(map[string]float64)
	for _, r := range rows {
		if r.Category == "" {
			continue
		}
		if v, ok := rowAmount(r); ok {
			totals[r.Category] += v
		}
	}
	if len(totals) == 0 {
		return model.CategoryBreakdown{}, false
	}

	entries := make([]model.BreakdownEntry, 0, len(totals))
	var total float64
	for name, v := range totals {
		entries = append(entries, model.BreakdownEntry{Name: name, Value: v})
		total += v
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Name < entries[j].Name
	})

	var top float64
	for i := range entries {
		if i < topN {
			top += entries[i].Value
		}
		entries[i].Share = share(entries[i].Value, total)
		entries[i].Value = stats.Round(entries[i].Value, 2)
	}

	return model.CategoryBreakdown{
		Field:          "category",
		Entries:        entries,
		TopContributor: entries[0].Name,
		Concentration:  share(top, total),
		Chain: model.NewEvidenceChain(model.EvidenceSpec{
			Dataset:     string(model.PackRevenue),
			Columns:     []string{"category", model.ColAmount},
			Computation: fmt.Sprintf("sum(amount) grouped by category (%d categories)", len(entries)),
			SampleSize:  len(rows),
		}),
	}, true
}

func dayOfWeekBreakdown(rows []model.Row) (model.CategoryBreakdown, *model.PatternInsight, bool) {
	totals := make(map[time.Weekday]float64)
	dated := 0
	for _, r := range rows {
		if r.Date.IsZero() {
			continue
		}
		v, ok := rowAmount(r)
		if !ok {
			continue
		}
		dated++
		totals[r.Date.Weekday()] += v
	}
	if len(totals) == 0 {
		return model.CategoryBreakdown{}, nil, false
	}

	var (
		entries       []model.BreakdownEntry
		values        []float64
		total         float64
		best, worst   string
		bestV, worstV float64
	)
	for _, d := range weekdayOrder {
		v, ok := totals[d]
		if !ok {
			continue
		}
		entries = append(entries, model.BreakdownEntry{Name: d.String(), Value: v})
		values = append(values, v)
		total += v
		if best == "" || v > bestV {
			best, bestV = d.String(), v
		}
		if worst == "" || v < worstV {
			worst, worstV = d.String(), v
		}
	}
	for i := range entries {
		entries[i].Share = share(entries[i].Value, total)
		entries[i].Value = stats.Round(entries[i].Value, 2)
	}

	columns := []string{"transaction_date", model.ColAmount}
	b := model.CategoryBreakdown{
		Field:          "day_of_week",
		Entries:        entries,
		TopContributor: best,
		Chain: model.NewEvidenceChain(model.EvidenceSpec{
			Dataset:     string(model.PackRevenue),
			Columns:     columns,
			Computation: "sum(amount) grouped by day_of_week",
			SampleSize:  dated,
		}),
	}

	if len(entries) < dayOfWeekMinDays {
		return b, nil, true
	}
	mean := stats.Mean(values)
	spread := 0.0
	if mean > 0 {
		spread = (bestV - worstV) / mean
	}
	if spread <= dayOfWeekSpread {
		return b, nil, true
	}
	p := &model.PatternInsight{
		ID:          "day_of_week_pattern",
		Type:        model.PatternCycle,
		Description: fmt.Sprintf("%s is the strongest day, %s is the weakest. Consider day-specific strategies.", best, worst),
		Strength:    stats.Round(stats.Clamp(spread, 0, 1), 2),
		Actionable:  true,
		Chain: model.NewEvidenceChain(model.EvidenceSpec{
			Dataset:     string(model.PackRevenue),
			Columns:     columns,
			Computation: fmt.Sprintf("day_of_week aggregation over %d transactions", dated),
			SampleSize:  dated,
		}),
		Specifics: map[string]any{
			"best_day":        best,
			"best_day_total":  stats.Round(bestV, 2),
			"worst_day":       worst,
			"worst_day_total": stats.Round(worstV, 2),
		},
	}
	return b, p, true
}
