package metrics

import "github.com/Veraticus/ledgerlens/internal/model"

// ApplyBenchmarks returns a copy of ms where every headline metric whose id
// has a benchmark carries the benchmark, gap and gap direction. Per-month
// metrics are never compared.
func ApplyBenchmarks(ms []model.ComputedMetric, table *model.BenchmarkTable) []model.ComputedMetric {
	out := make([]model.ComputedMetric, len(ms))
	for i, m := range ms {
		out[i] = m
		if m.Category == model.CategoryRatioMonthly {
			continue
		}
		if b, ok := table.Get(m.ID); ok {
			out[i] = m.WithBenchmark(b)
		}
	}
	return out
}

// BenchmarksUsed returns the benchmarks that were attached to at least one
// metric, in metric order.
func BenchmarksUsed(ms []model.ComputedMetric, table *model.BenchmarkTable) []model.Benchmark {
	var out []model.Benchmark
	seen := make(map[string]bool)
	for _, m := range ms {
		if !m.HasBenchmark() || seen[m.ID] {
			continue
		}
		if b, ok := table.Get(m.ID); ok {
			seen[m.ID] = true
			out = append(out, b)
		}
	}
	return out
}
