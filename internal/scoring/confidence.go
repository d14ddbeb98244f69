package scoring

import (
	"fmt"
	"math"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

func (s *Scorer) confidence(evidence float64) (float64, model.ScoringEvidence) {
	modeConf := s.in.Mode.Confidence
	completeness := s.in.Quality.OverallCompleteness
	monthBonus := min(0.1, float64(s.in.Coverage.Months)*0.01)

	score := min(1, modeConf*0.4+completeness*0.3+evidence*0.3+monthBonus)

	return score, model.ScoringEvidence{
		Component: model.ComponentConfidence,
		RawValue:  round3(score),
		Score:     round3(score),
		Computation: fmt.Sprintf(
			"mode_confidence(%.2f)×0.4 + data_completeness(%.2f)×0.3 + evidence_strength(%.2f)×0.3 + month_bonus(%.2f)",
			modeConf, completeness, evidence, monthBonus),
		SupportingMetrics: []string{"mode_info", "data_quality", "time_coverage"},
		Confidence:        0.95,
	}
}

type effortRating struct {
	level model.EffortLevel
	score float64
}

var effortByType = map[model.InitiativeType]effortRating{
	model.InitiativeLabor:      {model.EffortMedium, 0.5},
	model.InitiativePricing:    {model.EffortSmall, 0.8},
	model.InitiativeCost:       {model.EffortMedium, 0.5},
	model.InitiativeThroughput: {model.EffortLarge, 0.3},
	model.InitiativeOperations: {model.EffortMedium, 0.5},
	model.InitiativeDiscount:   {model.EffortSmall, 0.8},
	model.InitiativeWaste:      {model.EffortMedium, 0.5},
	model.InitiativeMarketing:  {model.EffortMedium, 0.5},
}

// Effort returns the effort level and inverted effort score for a type
// under the given constraints.
func Effort(t model.InitiativeType, c Constraints) (model.EffortLevel, float64) {
	if t == model.InitiativePricing && c.PricingControl == PricingNoControl {
		return model.EffortLarge, 0.2
	}
	if r, ok := effortByType[t]; ok {
		return r.level, r.score
	}
	return model.EffortMedium, 0.5
}

func (s *Scorer) effort(t model.InitiativeType) (model.EffortLevel, float64, model.ScoringEvidence) {
	level, score := Effort(t, s.opts.Constraints)
	var supporting []string
	if s.opts.Constraints.PricingControl != "" {
		supporting = append(supporting, "constraint:pricing_control")
	}
	return level, score, model.ScoringEvidence{
		Component:         model.ComponentEffort,
		RawValue:          score,
		Score:             score,
		Computation:       fmt.Sprintf("effort_level=%s, inverted_score=%g", level, score),
		SupportingMetrics: nonNil(supporting),
		Confidence:        0.7,
	}
}

func ptr(v float64) *float64 { return &v }

func round2(v float64) float64 { return stats.Round(v, 2) }

func round3(v float64) float64 { return stats.Round(v, 3) }

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return stats.Clamp(v, 0, 1)
}
