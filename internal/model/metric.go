package model

import "math"

// GapDirection describes where a metric sits relative to its benchmark.
type GapDirection string

// Gap directions.
const (
	GapAbove GapDirection = "above"
	GapBelow GapDirection = "below"
	GapAt    GapDirection = "at"
)

// GapDeadBand is the half-width of the band treated as "at" benchmark.
const GapDeadBand = 0.5

// Metric categories.
const (
	CategoryRevenue       = "revenue"
	CategoryLabor         = "labor"
	CategoryCost          = "cost"
	CategoryRatio         = "ratio"
	CategoryRatioMonthly  = "ratio_monthly"
	CategoryTrend         = "trend"
	CategoryVolatility    = "volatility"
	CategoryCorrelation   = "correlation"
	CategoryChange        = "change"
	CategoryGrowth        = "growth"
	CategoryDistribution  = "distribution"
	CategoryEfficiency    = "efficiency"
	CategorySignal        = "signal"
	CategoryProfitability = "profitability"
)

// Metric units.
const (
	UnitCurrency    = "currency"
	UnitPercentage  = "percentage"
	UnitPctPerMonth = "pct_per_month"
	UnitPctChange   = "pct_change"
	UnitCV          = "coefficient_of_variation"
	UnitCorrelation = "correlation_coefficient"
	UnitRatio       = "ratio"
)

// ComputedMetric is a single derived number with its provenance.
type ComputedMetric struct {
	Benchmark       *float64      `json:"benchmark,omitempty"`
	Gap             *float64      `json:"gap_to_benchmark,omitempty"`
	ID              string        `json:"metric_id"`
	Label           string        `json:"label"`
	Unit            string        `json:"unit"`
	Category        string        `json:"category"`
	BenchmarkSource string        `json:"benchmark_source,omitempty"`
	GapDirection    GapDirection  `json:"gap_direction,omitempty"`
	Chain           EvidenceChain `json:"evidence"`
	Value           float64       `json:"value"`
	Confidence      float64       `json:"confidence"`
}

// EvidenceKey implements EvidenceBearer.
func (m ComputedMetric) EvidenceKey() string { return m.ID }

// Evidence implements EvidenceBearer.
func (m ComputedMetric) Evidence() EvidenceChain { return m.Chain }

// HasBenchmark reports whether a benchmark comparison is attached.
func (m ComputedMetric) HasBenchmark() bool {
	return m.Benchmark != nil && m.Gap != nil
}

// WithBenchmark returns a copy of m compared against b.
func (m ComputedMetric) WithBenchmark(b Benchmark) ComputedMetric {
	value := b.Value
	gap := math.Round((m.Value-b.Value)*100) / 100
	m.Benchmark = &value
	m.Gap = &gap
	m.BenchmarkSource = b.Source
	m.GapDirection = ClassifyGap(m.Value - b.Value)
	return m
}

// ClassifyGap maps a raw gap onto above/below/at using the dead-band.
func ClassifyGap(gap float64) GapDirection {
	switch {
	case gap > GapDeadBand:
		return GapAbove
	case gap < -GapDeadBand:
		return GapBelow
	default:
		return GapAt
	}
}

// MetricIndex gives keyed access to a metric list. The first metric with a
// given id wins.
type MetricIndex map[string]ComputedMetric

// IndexMetrics builds a MetricIndex.
func IndexMetrics(metrics []ComputedMetric) MetricIndex {
	idx := make(MetricIndex, len(metrics))
	for _, m := range metrics {
		if _, ok := idx[m.ID]; !ok {
			idx[m.ID] = m
		}
	}
	return idx
}

// Has reports whether a metric id is present.
func (idx MetricIndex) Has(id string) bool {
	_, ok := idx[id]
	return ok
}

// Value returns a metric's value if present.
func (idx MetricIndex) Value(id string) (float64, bool) {
	m, ok := idx[id]
	return m.Value, ok
}
