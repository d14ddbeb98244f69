package model

// Mode is the data-sufficiency classification of a run.
type Mode string

// Analysis modes, in decreasing order of fidelity.
const (
	ModePNL         Mode = "PNL_MODE"
	ModeOps         Mode = "OPS_MODE"
	ModeDirectional Mode = "DIRECTIONAL_MODE"
)

// MaxRecommendations returns the default recommendation count for the mode.
func (m Mode) MaxRecommendations() int {
	switch m {
	case ModePNL:
		return 7
	case ModeOps:
		return 5
	default:
		return 3
	}
}

// ModeInfo is the output of the mode classifier.
type ModeInfo struct {
	Mode            Mode       `json:"mode"`
	Reasons         []string   `json:"reasons"`
	DataPacks       []PackType `json:"data_packs"`
	Confidence      float64    `json:"confidence"`
	MonthsAvailable int        `json:"months_available"`
}
