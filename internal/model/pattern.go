package model

// PatternType classifies a detected pattern.
type PatternType string

// Pattern types.
const (
	PatternTrend       PatternType = "trend"
	PatternVolatility  PatternType = "volatility"
	PatternSeasonality PatternType = "seasonality"
	PatternCorrelation PatternType = "correlation"
	PatternCycle       PatternType = "cycle"
)

// PatternInsight is a statistical pattern found in the panel.
type PatternInsight struct {
	Specifics   map[string]any `json:"specifics"`
	ID          string         `json:"pattern_id"`
	Type        PatternType    `json:"pattern_type"`
	Description string         `json:"description"`
	Chain       EvidenceChain  `json:"evidence"`
	Strength    float64        `json:"strength"`
	Actionable  bool           `json:"actionable"`
}

// EvidenceKey implements EvidenceBearer.
func (p PatternInsight) EvidenceKey() string { return p.ID }

// Evidence implements EvidenceBearer.
func (p PatternInsight) Evidence() EvidenceChain { return p.Chain }

// SpecificString returns a string-valued specific.
func (p PatternInsight) SpecificString(key string) (string, bool) {
	v, ok := p.Specifics[key].(string)
	return v, ok
}

// SpecificFloat returns a numeric specific.
func (p PatternInsight) SpecificFloat(key string) (float64, bool) {
	switch v := p.Specifics[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
