package model

import (
	"sort"
	"strings"
)

// Benchmark is a sourced reference value for a metric within a vertical.
type Benchmark struct {
	MetricID      string  `json:"metric_id" yaml:"metric_id"`
	Unit          string  `json:"unit" yaml:"unit"`
	Source        string  `json:"source" yaml:"source"`
	Applicability string  `json:"applicability,omitempty" yaml:"applicability,omitempty"`
	Notes         string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	Value         float64 `json:"value" yaml:"value"`
	Confidence    float64 `json:"confidence" yaml:"confidence"`
}

// IsAssumption reports whether the benchmark is an assumption rather than a
// published figure.
func (b Benchmark) IsAssumption() bool {
	return strings.Contains(strings.ToUpper(b.Source), "ASSUMPTION")
}

// BenchmarkTable is the read-only benchmark set for one vertical. It is safe
// for concurrent use.
type BenchmarkTable struct {
	byID     map[string]Benchmark
	vertical string
	ids      []string
}

// NewBenchmarkTable builds a table. Later duplicates replace earlier ones.
func NewBenchmarkTable(vertical string, benchmarks []Benchmark) *BenchmarkTable {
	t := &BenchmarkTable{
		vertical: vertical,
		byID:     make(map[string]Benchmark, len(benchmarks)),
	}
	for _, b := range benchmarks {
		t.byID[b.MetricID] = b
	}
	t.ids = make([]string, 0, len(t.byID))
	for id := range t.byID {
		t.ids = append(t.ids, id)
	}
	sort.Strings(t.ids)
	return t
}

// Vertical returns the vertical the table applies to.
func (t *BenchmarkTable) Vertical() string {
	if t == nil {
		return ""
	}
	return t.vertical
}

// Get returns the benchmark for a metric id.
func (t *BenchmarkTable) Get(metricID string) (Benchmark, bool) {
	if t == nil {
		return Benchmark{}, false
	}
	b, ok := t.byID[metricID]
	return b, ok
}

// All returns every benchmark ordered by metric id.
func (t *BenchmarkTable) All() []Benchmark {
	if t == nil {
		return nil
	}
	out := make([]Benchmark, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.byID[id])
	}
	return out
}

// Len returns the number of benchmarks.
func (t *BenchmarkTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}
