// Package scoring turns the initiative catalog into ranked, evidence-backed
// recommendations. It reads only metrics and patterns that were already
// computed and introduces no new statistics.
package scoring

import (
	"log/slog"
	"math"
	"sort"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// Priority weights. They are fixed, not learned.
const (
	WeightEvidence   = 0.25
	WeightGap        = 0.35
	WeightConfidence = 0.20
	WeightEffort     = 0.20

	// BoostAmount is added to the priority of boosted initiatives.
	BoostAmount = 0.05
)

// PricingNoControl is the pricing constraint value meaning the operator
// cannot change prices.
const PricingNoControl = "no_control"

// Constraints are operator answers that change how initiatives are scored.
type Constraints struct {
	PricingControl string `json:"pricing_control,omitempty"`
}

// Options is the run context supplied by the caller.
type Options struct {
	Constraints Constraints
	Blacklist   []string
	Boosts      []string
}

// Inputs are the outputs of the earlier analysis stages.
type Inputs struct {
	Benchmarks *model.BenchmarkTable
	Mode       model.ModeInfo
	Quality    panel.DataQuality
	Coverage   panel.TimeCoverage
	Metrics    []model.ComputedMetric
	Patterns   []model.PatternInsight
	Breakdowns []model.CategoryBreakdown
}

// Scorer scores initiatives against one analysis. It holds no mutable state
// after construction.
type Scorer struct {
	in         Inputs
	opts       Options
	metrics    model.MetricIndex
	breakdowns map[string]model.CategoryBreakdown
	blacklist  map[string]bool
	boosts     map[string]bool
}

// New creates a Scorer.
func New(in Inputs, opts Options) *Scorer {
	s := &Scorer{
		in:         in,
		opts:       opts,
		metrics:    model.IndexMetrics(in.Metrics),
		breakdowns: make(map[string]model.CategoryBreakdown),
		blacklist:  toSet(opts.Blacklist),
		boosts:     toSet(opts.Boosts),
	}
	for _, b := range in.Breakdowns {
		if _, ok := s.breakdowns[b.Field]; !ok {
			s.breakdowns[b.Field] = b
		}
	}
	return s
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// ScoreAll filters the catalog by blacklist and eligibility, scores what
// remains, drops initiatives without evidence and returns the ranked list.
func (s *Scorer) ScoreAll(catalog []model.Initiative) []model.ScoredInitiative {
	var scored []model.ScoredInitiative
	for _, init := range catalog {
		if s.blacklist[init.ID] {
			slog.Debug("Skipping blacklisted initiative", "initiative", init.ID)
			continue
		}
		if !init.Eligibility.Allows(s.in.Coverage.Months, s.in.Mode.DataPacks) {
			slog.Debug("Skipping ineligible initiative",
				"initiative", init.ID,
				"min_months", init.Eligibility.MinMonths,
				"months", s.in.Coverage.Months)
			continue
		}
		si, ok := s.Score(init)
		if !ok {
			slog.Debug("Dropping initiative without evidence", "initiative", init.ID)
			continue
		}
		scored = append(scored, si)
	}
	Rank(scored)
	return scored
}

// Score computes the full scoring breakdown for one initiative. It returns
// false when no evidence supports the initiative.
func (s *Scorer) Score(init model.Initiative) (model.ScoredInitiative, bool) {
	evidence, evidenceDetail := s.evidenceStrength(init.Type)
	if evidence == 0 {
		return model.ScoredInitiative{}, false
	}

	gap, gapMag, gapDetail := s.gapMagnitude(init.Type)
	confidence, confidenceDetail := s.confidence(evidence)
	effort, effortScore, effortDetail := s.effort(init.Type)

	priority := WeightEvidence*evidence +
		WeightGap*gapMag +
		WeightConfidence*confidence +
		WeightEffort*effortScore

	details := []model.ScoringEvidence{evidenceDetail, gapDetail, confidenceDetail, effortDetail}
	if s.boosts[init.ID] {
		boosted := math.Min(1, priority+BoostAmount)
		details = append(details, model.ScoringEvidence{
			Component:   model.ComponentBoost,
			Computation: "operator priority boost +0.05",
			RawValue:    BoostAmount,
			Score:       stats.Round(boosted-priority, 3),
			Confidence:  1,
		})
		priority = boosted
	}

	return model.ScoredInitiative{
		ID:               init.ID,
		Title:            init.Title,
		Category:         init.Category,
		Type:             init.Type,
		EvidenceStrength: stats.Round(evidence, 3),
		GapMagnitude:     stats.Round(gapMag, 3),
		Confidence:       stats.Round(confidence, 3),
		Effort:           effort,
		EffortScore:      stats.Round(effortScore, 3),
		PriorityScore:    stats.Round(priority, 3),
		ScoringEvidence:  details,
		Gap:              gap,
		Specifics:        s.specifics(init.Type),
		DataGaps:         s.dataGaps(init.Type, evidence),
		Assumptions:      []string{},
	}, true
}

// Rank sorts by descending priority, keeping input order on ties, and
// assigns ranks 1..N.
func Rank(scored []model.ScoredInitiative) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
}
