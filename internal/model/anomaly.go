package model

// Severity grades an anomaly.
type Severity string

// Anomaly severities.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ValueRange is a closed numeric interval.
type ValueRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// DataAnomaly flags an observation that falls outside the expected range.
type DataAnomaly struct {
	ID             string        `json:"anomaly_id"`
	Description    string        `json:"description"`
	Severity       Severity      `json:"severity"`
	AffectedMetric string        `json:"affected_metric"`
	Recommendation string        `json:"recommendation"`
	Chain          EvidenceChain `json:"evidence"`
	Values         []float64     `json:"values"`
	ExpectedRange  ValueRange    `json:"expected_range"`
}

// EvidenceKey implements EvidenceBearer.
func (a DataAnomaly) EvidenceKey() string { return a.ID }

// Evidence implements EvidenceBearer.
func (a DataAnomaly) Evidence() EvidenceChain { return a.Chain }
