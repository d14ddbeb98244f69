package model

import (
	"encoding/json"
	"sort"
)

// MaxRawValues caps the raw-value sample stored on an evidence chain.
const MaxRawValues = 12

// TimeRange is an inclusive month span.
type TimeRange struct {
	Start Month `json:"start"`
	End   Month `json:"end"`
}

// EvidenceSpec carries the inputs used to build an EvidenceChain.
type EvidenceSpec struct {
	Filters     map[string]string
	TimeRange   *TimeRange
	Dataset     string
	Computation string
	Columns     []string
	RawValues   []float64
	SampleSize  int
}

// EvidenceChain records how a derived number was computed. It cannot be
// modified after construction; accessors hand out copies.
type EvidenceChain struct {
	filters     map[string]string
	timeRange   *TimeRange
	dataset     string
	computation string
	columns     []string
	rawValues   []float64
	sampleSize  int
}

// NewEvidenceChain builds an immutable evidence chain from spec.
func NewEvidenceChain(spec EvidenceSpec) EvidenceChain {
	ec := EvidenceChain{
		dataset:     spec.Dataset,
		computation: spec.Computation,
		sampleSize:  spec.SampleSize,
		columns:     append([]string(nil), spec.Columns...),
	}
	if len(spec.Filters) > 0 {
		ec.filters = make(map[string]string, len(spec.Filters))
		for k, v := range spec.Filters {
			ec.filters[k] = v
		}
	}
	if spec.TimeRange != nil {
		tr := *spec.TimeRange
		ec.timeRange = &tr
	}
	raw := spec.RawValues
	if len(raw) > MaxRawValues {
		raw = raw[:MaxRawValues]
	}
	if len(raw) > 0 {
		ec.rawValues = append([]float64(nil), raw...)
	}
	return ec
}

// Dataset names the source pack(s) the number came from.
func (e EvidenceChain) Dataset() string { return e.dataset }

// Computation is the human-readable description of the calculation.
func (e EvidenceChain) Computation() string { return e.computation }

// SampleSize is the number of observations used.
func (e EvidenceChain) SampleSize() int { return e.sampleSize }

// Columns returns the source columns.
func (e EvidenceChain) Columns() []string {
	return append([]string(nil), e.columns...)
}

// RawValues returns the capped raw-value sample.
func (e EvidenceChain) RawValues() []float64 {
	return append([]float64(nil), e.rawValues...)
}

// Filter returns a single filter value, such as the month a peak occurred in.
func (e EvidenceChain) Filter(key string) (string, bool) {
	v, ok := e.filters[key]
	return v, ok
}

// Filters returns a copy of all filters.
func (e EvidenceChain) Filters() map[string]string {
	if e.filters == nil {
		return nil
	}
	out := make(map[string]string, len(e.filters))
	for k, v := range e.filters {
		out[k] = v
	}
	return out
}

// TimeRange returns the covered month span if one was recorded.
func (e EvidenceChain) TimeRange() (TimeRange, bool) {
	if e.timeRange == nil {
		return TimeRange{}, false
	}
	return *e.timeRange, true
}

// IsZero reports whether the chain was never populated.
func (e EvidenceChain) IsZero() bool {
	return e.dataset == "" && e.computation == "" && e.sampleSize == 0 && len(e.columns) == 0
}

type evidenceJSON struct {
	Filters     map[string]string `json:"filters,omitempty"`
	TimeRange   *TimeRange        `json:"time_range,omitempty"`
	Dataset     string            `json:"dataset"`
	Computation string            `json:"computation"`
	Columns     []string          `json:"columns"`
	RawValues   []float64         `json:"raw_values,omitempty"`
	SampleSize  int               `json:"sample_size"`
}

// MarshalJSON implements json.Marshaler.
func (e EvidenceChain) MarshalJSON() ([]byte, error) {
	return json.Marshal(evidenceJSON{
		Dataset:     e.dataset,
		Columns:     e.columns,
		Filters:     e.filters,
		Computation: e.computation,
		SampleSize:  e.sampleSize,
		TimeRange:   e.timeRange,
		RawValues:   e.rawValues,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EvidenceChain) UnmarshalJSON(data []byte) error {
	var raw evidenceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = NewEvidenceChain(EvidenceSpec{
		Dataset:     raw.Dataset,
		Columns:     raw.Columns,
		Filters:     raw.Filters,
		Computation: raw.Computation,
		SampleSize:  raw.SampleSize,
		TimeRange:   raw.TimeRange,
		RawValues:   raw.RawValues,
	})
	return nil
}

// EvidenceBearer is implemented by every derived record that carries an
// evidence chain, so renderers can treat them uniformly.
type EvidenceBearer interface {
	EvidenceKey() string
	Evidence() EvidenceChain
}

// SortedFilterKeys returns filter keys in deterministic order.
func (e EvidenceChain) SortedFilterKeys() []string {
	keys := make([]string, 0, len(e.filters))
	for k := range e.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
