package model

// BreakdownEntry is one bucket of a category breakdown.
type BreakdownEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Share float64 `json:"pct"`
}

// CategoryBreakdown groups transaction amounts by a categorical field.
type CategoryBreakdown struct {
	Field          string           `json:"category_field"`
	TopContributor string           `json:"top_contributor"`
	Chain          EvidenceChain    `json:"evidence"`
	Entries        []BreakdownEntry `json:"breakdown"`
	Concentration  float64          `json:"concentration"`
}

// EvidenceKey implements EvidenceBearer.
func (b CategoryBreakdown) EvidenceKey() string { return b.Field + "_breakdown" }

// Evidence implements EvidenceBearer.
func (b CategoryBreakdown) Evidence() EvidenceChain { return b.Chain }
