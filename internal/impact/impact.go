// Package impact sizes scored initiatives in annual dollars. Estimates are
// derived from benchmark gaps when one exists and fall back to explicitly
// flagged assumptions otherwise.
package impact

import (
	"fmt"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// Capture rates applied to a gap for the low, mid and high estimates.
const (
	CaptureLow  = 0.25
	CaptureMid  = 0.50
	CaptureHigh = 0.75
)

// Revenue shares used when no gap is available.
const (
	fallbackLow  = 0.01
	fallbackMid  = 0.02
	fallbackHigh = 0.03
)

// Fixed range used when not even revenue is known.
const (
	FixedLow  = 5000.0
	FixedMid  = 15000.0
	FixedHigh = 30000.0
)

// Estimator sizes initiatives against one run's metrics.
type Estimator struct {
	metrics model.MetricIndex
}

// NewEstimator creates an Estimator over the computed metrics.
func NewEstimator(metrics []model.ComputedMetric) *Estimator {
	return &Estimator{metrics: model.IndexMetrics(metrics)}
}

// base returns a strictly positive metric value.
func (e *Estimator) base(id string) (float64, bool) {
	v, ok := e.metrics.Value(id)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Estimate sizes one scored initiative.
func (e *Estimator) Estimate(si model.ScoredInitiative) model.ImpactEstimate {
	gap, hasGap := si.Gap.PositiveGap()

	if hasGap {
		switch si.Type {
		case model.InitiativeLabor:
			if labor, ok := e.base("labor_avg_monthly"); ok {
				return gapBased("labor_avg_monthly", labor, gap, []string{
					fmt.Sprintf("Labor gap of %.1fpp can be partially captured", gap),
					"Capture rates: 25%-75% of gap",
				})
			}
		case model.InitiativePricing:
			if revenue, ok := e.base("revenue_avg_monthly"); ok {
				return gapBased("revenue_avg_monthly", revenue, gap, []string{
					fmt.Sprintf("Margin gap of %.1fpp can be partially captured through pricing", gap),
					"Assumes price elasticity allows 50% gap capture",
				})
			}
		case model.InitiativeCost, model.InitiativeWaste:
			if cogs, ok := e.base("cogs_avg_monthly"); ok {
				return gapBased("cogs_avg_monthly", cogs, gap, []string{
					fmt.Sprintf("COGS gap of %.1fpp partially addressable", gap),
				})
			}
		}
	}

	if revenue, ok := e.base("revenue_avg_monthly"); ok {
		annual := revenue * 12
		return model.ImpactEstimate{
			Low:          round2(annual * fallbackLow),
			Mid:          round2(annual * fallbackMid),
			High:         round2(annual * fallbackHigh),
			Method:       model.ImpactAssumptionBased,
			BaseMetric:   "revenue_avg_monthly",
			BaseValue:    &revenue,
			IsAssumption: true,
			Assumptions: []string{
				"ASSUMPTION: No specific gap data available",
				"Using conservative 1-3% of annual revenue as estimate",
				"Actual impact requires more detailed data",
			},
		}
	}

	return model.ImpactEstimate{
		Low:          FixedLow,
		Mid:          FixedMid,
		High:         FixedHigh,
		Method:       model.ImpactAssumptionFixed,
		IsAssumption: true,
		Assumptions: []string{
			"ASSUMPTION: Insufficient data for impact calculation",
			"Using industry-typical ranges",
		},
	}
}

// gapBased computes annual base × gap share × capture rate. The gap is in
// percentage points.
func gapBased(metric string, monthly, gap float64, assumptions []string) model.ImpactEstimate {
	annual := monthly * 12
	share := gap / 100
	mid := annual * share * CaptureMid
	return model.ImpactEstimate{
		Low:         round2(annual * share * CaptureLow),
		Mid:         round2(mid),
		High:        round2(annual * share * CaptureHigh),
		Method:      model.ImpactGapBased,
		BaseMetric:  metric,
		BaseValue:   &monthly,
		Assumptions: assumptions,
		Sensitivity: &model.Sensitivity{
			IfGapOnePointSmaller: round2(mid - annual*0.01*CaptureMid),
			IfCaptureRateHalved:  round2(mid * 0.5),
		},
	}
}

// Apply attaches an impact estimate to every scored initiative and appends
// the estimate's assumptions to the initiative's own.
func (e *Estimator) Apply(scored []model.ScoredInitiative) {
	for i := range scored {
		est := e.Estimate(scored[i])
		scored[i].Impact = est
		scored[i].Assumptions = append(scored[i].Assumptions, est.Assumptions...)
	}
}

func round2(v float64) float64 { return stats.Round(v, 2) }
