package scoring

import (
	"fmt"

	"github.com/Veraticus/ledgerlens/internal/model"
)

const (
	// assumedGap is the gap magnitude used when no benchmark comparison is
	// possible. It is always flagged as an assumption.
	assumedGap           = 0.3
	assumedGapConfidence = 0.4

	laborGapScale  = 10.0
	cogsGapScale   = 10.0
	marginGapScale = 15.0

	wasteFactor      = 0.25
	wastePotentialPt = 5.0
)

func (s *Scorer) gapMagnitude(t model.InitiativeType) (model.GapAnalysis, float64, model.ScoringEvidence) {
	var (
		gap        model.GapAnalysis
		magnitude  float64
		supporting []string
		ok         bool
	)

	switch t {
	case model.InitiativeLabor:
		supporting = []string{"labor_pct", "labor_avg_monthly"}
		gap, magnitude, ok = s.benchmarkGap("labor_pct", laborGapScale,
			"current(%.1f%%) - benchmark(%.1f%%) = %.1fpp gap", 0.85, model.GapBenchmark)
	case model.InitiativePricing:
		supporting = []string{"cogs_pct", "gross_margin_pct"}
		gap, magnitude, ok = s.benchmarkGap("cogs_pct", cogsGapScale,
			"COGS current(%.1f%%) - benchmark(%.1f%%) = %.1fpp gap", 0.80, model.GapCOGS)
		if !ok {
			gap, magnitude, ok = s.marginGap()
		}
	case model.InitiativeCost:
		supporting = []string{"cogs_pct"}
		gap, magnitude, ok = s.costGap()
	case model.InitiativeThroughput:
		supporting = []string{"revenue_volatility", "revenue_trend"}
		gap, magnitude, ok = s.volatilityGap()
	case model.InitiativeWaste:
		supporting = []string{"cogs_pct"}
		gap, magnitude, ok = s.wasteGap()
	}

	if !ok {
		gap = model.GapAnalysis{
			Type:        model.GapAssumed,
			Computation: "default_assumption",
			Confidence:  assumedGapConfidence,
		}
		magnitude = assumedGap
	}

	raw := 0.0
	if gap.Value != nil {
		raw = *gap.Value
	}
	return gap, magnitude, model.ScoringEvidence{
		Component:         model.ComponentGap,
		RawValue:          raw,
		Score:             round3(magnitude),
		Computation:       gap.Computation,
		SupportingMetrics: nonNil(supporting),
		Confidence:        gap.Confidence,
	}
}

// current returns a metric value together with its benchmark.
func (s *Scorer) current(id string) (current, bench float64, ok bool) {
	current, ok = s.metrics.Value(id)
	if !ok {
		return 0, 0, false
	}
	b, ok := s.in.Benchmarks.Get(id)
	if !ok {
		return 0, 0, false
	}
	return current, b.Value, true
}

// benchmarkGap scores current minus benchmark, where higher is worse.
func (s *Scorer) benchmarkGap(id string, scale float64, format string, conf float64, typ model.GapType) (model.GapAnalysis, float64, bool) {
	current, bench, ok := s.current(id)
	if !ok {
		return model.GapAnalysis{}, 0, false
	}
	value := current - bench
	return model.GapAnalysis{
		Current:     ptr(current),
		Benchmark:   ptr(bench),
		Value:       ptr(round2(value)),
		Type:        typ,
		Direction:   model.ClassifyGap(value),
		Computation: fmt.Sprintf(format, current, bench, value),
		Confidence:  conf,
	}, clampUnit(value / scale), true
}

// marginGap scores benchmark minus current gross margin, where lower margin
// is worse.
func (s *Scorer) marginGap() (model.GapAnalysis, float64, bool) {
	current, bench, ok := s.current("gross_margin_pct")
	if !ok {
		return model.GapAnalysis{}, 0, false
	}
	value := bench - current
	return model.GapAnalysis{
		Current:     ptr(current),
		Benchmark:   ptr(bench),
		Value:       ptr(round2(value)),
		Type:        model.GapMargin,
		Direction:   model.ClassifyGap(current - bench),
		Computation: fmt.Sprintf("Margin benchmark(%.1f%%) - current(%.1f%%) = %.1fpp gap", bench, current, value),
		Confidence:  0.75,
	}, clampUnit(value / marginGapScale), true
}

func (s *Scorer) costGap() (model.GapAnalysis, float64, bool) {
	current, bench, ok := s.current("cogs_pct")
	if !ok {
		return model.GapAnalysis{}, 0, false
	}
	value := current - bench
	return model.GapAnalysis{
		Current:     ptr(current),
		Benchmark:   ptr(bench),
		Value:       ptr(round2(value)),
		Type:        model.GapCOGS,
		Direction:   model.ClassifyGap(value),
		Computation: fmt.Sprintf("COGS %.1f%% vs benchmark %.1f%%", current, bench),
		Confidence:  0.75,
	}, clampUnit(value / cogsGapScale), true
}

// volatilityGap treats revenue variability as unused capacity.
func (s *Scorer) volatilityGap() (model.GapAnalysis, float64, bool) {
	cv, ok := s.metrics.Value("revenue_volatility")
	if !ok {
		return model.GapAnalysis{}, 0, false
	}
	magnitude := min(1, cv*2)
	return model.GapAnalysis{
		Current:     ptr(cv),
		Type:        model.GapVolatility,
		Computation: fmt.Sprintf("Revenue CV = %.2f, suggests %.0f%% capacity opportunity", cv, magnitude*100),
		Confidence:  0.6,
	}, max(0, magnitude), true
}

// wasteGap derives a waste opportunity from the COGS gap. A COGS figure at
// or below benchmark leaves no waste opportunity.
func (s *Scorer) wasteGap() (model.GapAnalysis, float64, bool) {
	current, bench, ok := s.current("cogs_pct")
	if !ok {
		return model.GapAnalysis{}, 0, false
	}
	value := current - bench
	gap := model.GapAnalysis{
		Current:   ptr(current),
		Benchmark: ptr(bench),
		Value:     ptr(round2(value)),
		Type:      model.GapCOGSWaste,
		Direction: model.ClassifyGap(value),
	}
	if value <= 0 {
		gap.Computation = fmt.Sprintf("COGS at or below benchmark (%.1f%% vs %.1f%%), no waste opportunity", current, bench)
		gap.Confidence = 0.55
		return gap, 0, true
	}
	potential := value * wasteFactor
	gap.WastePotential = ptr(round2(potential))
	gap.Computation = fmt.Sprintf("COGS gap (%.1fpp) × 25%% waste factor = %.1fpp potential", value, potential)
	gap.Confidence = 0.55
	return gap, min(1, potential/wastePotentialPt), true
}
