package metrics

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// SeriesMetrics computes the descriptive statistics for one canonical series.
// Mean, sum, median, peak, trough and range need one value; the standard
// deviation needs two, the annualized projection three and the quartiles
// four.
func SeriesMetrics(p *panel.Panel, def model.SeriesDef) []model.ComputedMetric {
	s := p.Series(def.Column)
	n := s.Len()
	if n == 0 {
		slog.Debug("Series has no values", "column", def.Column)
		return nil
	}

	dataset := p.DatasetLabel(def.Column)
	tr := s.TimeRange()
	evidence := func(computation string, raw []float64, filters map[string]string) model.EvidenceSpec {
		return model.EvidenceSpec{
			Dataset:     dataset,
			Columns:     []string{def.Column},
			Filters:     filters,
			Computation: computation,
			SampleSize:  n,
			TimeRange:   tr,
			RawValues:   raw,
		}
	}

	category := seriesCategory(def)
	avgCeiling := ceilingAverage
	if def.Expense && def.Column != model.ColLabor && def.Column != model.ColCOGS {
		avgCeiling = ceilingExpense
	}

	values := s.Values
	mean := stats.Mean(values)
	maxIdx := stats.ArgMax(values)
	minIdx := stats.ArgMin(values)
	maxVal, minVal := values[maxIdx], values[minIdx]

	out := []model.ComputedMetric{
		newMetric(metricSpec{
			id:       def.Prefix + "_avg_monthly",
			label:    "Average Monthly " + def.Label,
			unit:     model.UnitCurrency,
			category: category,
			value:    stats.Round(mean, 2),
			conf:     scaled(0.5, n, avgCeiling),
			evidence: evidence(fmt.Sprintf("mean(%d monthly values)", n), values, nil),
		}),
		newMetric(metricSpec{
			id:       def.Prefix + "_total_period",
			label:    "Total " + def.Label + " (Period)",
			unit:     model.UnitCurrency,
			category: category,
			value:    stats.Round(stats.Sum(values), 2),
			conf:     scaled(0.6, n, ceilingTotal),
			evidence: evidence(fmt.Sprintf("sum(%d monthly values)", n), values, nil),
		}),
		newMetric(metricSpec{
			id:       def.Prefix + "_median_monthly",
			label:    "Median Monthly " + def.Label,
			unit:     model.UnitCurrency,
			category: category,
			value:    stats.Round(stats.Median(values), 2),
			conf:     scaled(0.5, n, avgCeiling),
			evidence: evidence(fmt.Sprintf("median(%d monthly values)", n), nil, nil),
		}),
		newMetric(metricSpec{
			id:       def.Prefix + "_peak_month",
			label:    "Peak " + def.Label + " Month",
			unit:     model.UnitCurrency,
			category: category,
			value:    stats.Round(maxVal, 2),
			conf:     pointConfidence,
			evidence: evidence(fmt.Sprintf("max value in %s", s.Months[maxIdx]), nil, monthFilter(s.Months[maxIdx])),
		}),
		newMetric(metricSpec{
			id:       def.Prefix + "_trough_month",
			label:    "Lowest " + def.Label + " Month",
			unit:     model.UnitCurrency,
			category: category,
			value:    stats.Round(minVal, 2),
			conf:     pointConfidence,
			evidence: evidence(fmt.Sprintf("min value in %s", s.Months[minIdx]), nil, monthFilter(s.Months[minIdx])),
		}),
		newMetric(metricSpec{
			id:       def.Prefix + "_range",
			label:    def.Label + " Range (Max - Min)",
			unit:     model.UnitCurrency,
			category: category,
			value:    stats.Round(maxVal-minVal, 2),
			conf:     pointConfidence,
			evidence: evidence(fmt.Sprintf("max(%.0f) - min(%.0f)", maxVal, minVal), nil, nil),
		}),
	}

	if n >= 2 {
		std := stats.StdDev(values)
		out = append(out, newMetric(metricSpec{
			id:       def.Prefix + "_std_monthly",
			label:    def.Label + " Monthly Standard Deviation",
			unit:     model.UnitCurrency,
			category: model.CategoryDistribution,
			value:    stats.Round(std, 2),
			conf:     scaled(0.4, n, ceilingSpread),
			evidence: evidence(fmt.Sprintf("sample_std(%d monthly values)", n), nil, nil),
		}))
	}

	if n >= 3 {
		out = append(out, newMetric(metricSpec{
			id:       def.Prefix + "_annualized",
			label:    "Annualized " + def.Label + " (Projected)",
			unit:     model.UnitCurrency,
			category: category,
			value:    stats.Round(mean*12, 2),
			conf:     scaled(0.4, n, ceilingProjection),
			evidence: evidence(fmt.Sprintf("monthly_avg(%.0f) × 12", mean), nil, nil),
		}))
	}

	if n >= 4 {
		p25 := stats.Percentile(values, 25)
		p75 := stats.Percentile(values, 75)
		conf := scaled(0.4, n, ceilingSpread)
		out = append(out,
			newMetric(metricSpec{
				id:       def.Prefix + "_p25",
				label:    def.Label + " 25th Percentile",
				unit:     model.UnitCurrency,
				category: model.CategoryDistribution,
				value:    stats.Round(p25, 2),
				conf:     conf,
				evidence: evidence(fmt.Sprintf("percentile(25, %d monthly values, linear)", n), nil, nil),
			}),
			newMetric(metricSpec{
				id:       def.Prefix + "_p75",
				label:    def.Label + " 75th Percentile",
				unit:     model.UnitCurrency,
				category: model.CategoryDistribution,
				value:    stats.Round(p75, 2),
				conf:     conf,
				evidence: evidence(fmt.Sprintf("percentile(75, %d monthly values, linear)", n), nil, nil),
			}),
			newMetric(metricSpec{
				id:       def.Prefix + "_iqr",
				label:    def.Label + " Interquartile Range",
				unit:     model.UnitCurrency,
				category: model.CategoryDistribution,
				value:    stats.Round(p75-p25, 2),
				conf:     conf,
				evidence: evidence(fmt.Sprintf("p75(%.0f) - p25(%.0f)", p75, p25), nil, nil),
			}),
		)
	}

	return out
}

func seriesCategory(def model.SeriesDef) string {
	switch def.Column {
	case model.ColRevenue:
		return model.CategoryRevenue
	case model.ColLabor:
		return model.CategoryLabor
	default:
		return model.CategoryCost
	}
}
