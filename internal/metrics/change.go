package metrics

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

var changeColumns = []string{model.ColRevenue, model.ColLabor, model.ColCOGS}

var growthColumns = []string{model.ColRevenue, model.ColLabor}

type transition struct {
	month model.Month
	pct   float64
}

// momTransitions returns the percent change between adjacent observations.
// The first observation has no prior and transitions from zero are skipped.
func momTransitions(s panel.Series) []transition {
	var out []transition
	for i := 1; i < s.Len(); i++ {
		prev := s.Values[i-1]
		if prev == 0 {
			continue
		}
		out = append(out, transition{
			month: s.Months[i],
			pct:   (s.Values[i] - prev) / prev * 100,
		})
	}
	return out
}

// ChangeMetrics reports the average month-over-month change per series and,
// with at least three transitions, the largest increase and decrease.
func ChangeMetrics(p *panel.Panel) []model.ComputedMetric {
	var out []model.ComputedMetric
	for _, col := range changeColumns {
		def, _ := model.SeriesFor(col)
		s := p.Series(col)
		changes := momTransitions(s)
		if len(changes) == 0 {
			continue
		}

		k := len(changes)
		pcts := make([]float64, k)
		for i, c := range changes {
			pcts[i] = c.pct
		}
		tr := &model.TimeRange{Start: changes[0].month, End: changes[k-1].month}
		dataset := p.DatasetLabel(col)
		evidence := func(computation string, raw []float64, filters map[string]string) model.EvidenceSpec {
			return model.EvidenceSpec{
				Dataset:     dataset,
				Columns:     []string{col},
				Filters:     filters,
				Computation: computation,
				SampleSize:  k,
				TimeRange:   tr,
				RawValues:   raw,
			}
		}

		out = append(out, newMetric(metricSpec{
			id:       def.Prefix + "_avg_mom_change",
			label:    def.Label + " Avg Month-over-Month Change",
			unit:     model.UnitPctChange,
			category: model.CategoryChange,
			value:    stats.Round(stats.Mean(pcts), 2),
			conf:     scaled(0.4, k, ceilingChange),
			evidence: evidence(fmt.Sprintf("avg(pct_change) over %d month transitions", k), roundAll(pcts, 2), nil),
		}))

		if k < 3 {
			continue
		}
		inc := changes[stats.ArgMax(pcts)]
		dec := changes[stats.ArgMin(pcts)]
		out = append(out,
			newMetric(metricSpec{
				id:       def.Prefix + "_max_mom_increase",
				label:    def.Label + " Largest Monthly Increase",
				unit:     model.UnitPctChange,
				category: model.CategoryChange,
				value:    stats.Round(inc.pct, 2),
				conf:     pointConfidence,
				evidence: evidence(fmt.Sprintf("max MoM increase in %s", inc.month), nil, monthFilter(inc.month)),
			}),
			newMetric(metricSpec{
				id:       def.Prefix + "_max_mom_decrease",
				label:    def.Label + " Largest Monthly Decrease",
				unit:     model.UnitPctChange,
				category: model.CategoryChange,
				value:    stats.Round(dec.pct, 2),
				conf:     pointConfidence,
				evidence: evidence(fmt.Sprintf("max MoM decrease in %s", dec.month), nil, monthFilter(dec.month)),
			}),
		)
	}
	return out
}

// GrowthMetrics reports compound monthly growth and total growth between the
// first and last observed month. Both endpoints must be positive.
func GrowthMetrics(p *panel.Panel) []model.ComputedMetric {
	var out []model.ComputedMetric
	for _, col := range growthColumns {
		def, _ := model.SeriesFor(col)
		s := p.Series(col)
		n := s.Len()
		if n < 2 {
			continue
		}
		first, last := s.Values[0], s.Values[n-1]
		span := model.MonthsBetween(s.Months[0], s.Months[n-1])
		if first <= 0 || last <= 0 || span <= 0 {
			slog.Debug("Skipping growth for non-positive endpoints", "column", col)
			continue
		}

		cmgr := (math.Pow(last/first, 1/float64(span)) - 1) * 100
		total := (last/first - 1) * 100
		evidence := func(computation string) model.EvidenceSpec {
			return model.EvidenceSpec{
				Dataset:     p.DatasetLabel(col),
				Columns:     []string{col},
				Computation: computation,
				SampleSize:  n,
				TimeRange:   s.TimeRange(),
			}
		}

		out = append(out,
			newMetric(metricSpec{
				id:       def.Prefix + "_cmgr",
				label:    def.Label + " Compound Monthly Growth Rate",
				unit:     model.UnitPctPerMonth,
				category: model.CategoryGrowth,
				value:    stats.Round(cmgr, 2),
				conf:     scaled(0.4, n, ceilingProjection),
				evidence: evidence(fmt.Sprintf("(last(%.0f) / first(%.0f))^(1/%d) - 1", last, first, span)),
			}),
			newMetric(metricSpec{
				id:       def.Prefix + "_total_growth",
				label:    def.Label + " Total Growth",
				unit:     model.UnitPercentage,
				category: model.CategoryGrowth,
				value:    stats.Round(total, 2),
				conf:     scaled(0.5, n, ceilingAverage),
				evidence: evidence(fmt.Sprintf("last(%.0f) / first(%.0f) - 1 over %d months", last, first, span)),
			}),
		)
	}
	return out
}
