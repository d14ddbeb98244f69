package analysis

import (
	"fmt"
	"time"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/scoring"
)

// ProgressFunc receives stage names and completion percentages.
type ProgressFunc func(stage string, percent int)

// Options configures a single analysis run.
type Options struct {
	Progress           ProgressFunc
	Dataset            model.Dataset
	Constraints        scoring.Constraints
	Blacklist          []string
	Boosts             []string
	MaxRecommendations int
	Narrate            bool
}

// Validate checks the run options.
func (o Options) Validate() error {
	if o.MaxRecommendations < 0 {
		return fmt.Errorf("max recommendations must not be negative, got %d", o.MaxRecommendations)
	}
	for _, id := range o.Blacklist {
		if id == "" {
			return fmt.Errorf("blacklist contains an empty initiative id")
		}
	}
	for _, id := range o.Boosts {
		if id == "" {
			return fmt.Errorf("boost list contains an empty initiative id")
		}
	}
	return nil
}

// ScoringBreakdown repeats the component scores of a recommendation.
type ScoringBreakdown struct {
	EvidenceStrength float64 `json:"evidence_strength"`
	GapMagnitude     float64 `json:"gap_magnitude"`
	Confidence       float64 `json:"confidence"`
	EffortScore      float64 `json:"effort_score"`
}

// Recommendation is one ranked, fully explained initiative.
type Recommendation struct {
	Sensitivity       *model.Sensitivity      `json:"sensitivity,omitempty"`
	InitiativeID      string                  `json:"initiative_id"`
	Title             string                  `json:"title"`
	Category          string                  `json:"category"`
	Type              model.InitiativeType    `json:"type"`
	Headline          string                  `json:"headline"`
	Rationale         string                  `json:"rationale"`
	Effort            model.EffortLevel       `json:"effort"`
	EvidenceChain     []model.ScoringEvidence `json:"evidence_chain"`
	Assumptions       []string                `json:"assumptions"`
	DataGaps          []string                `json:"data_gaps"`
	Impact            model.ImpactEstimate    `json:"impact"`
	Gap               model.GapAnalysis       `json:"gap"`
	Specifics         model.DataSpecifics     `json:"data_specifics"`
	Scoring           ScoringBreakdown        `json:"scoring_breakdown"`
	Confidence        float64                 `json:"confidence"`
	PriorityScore     float64                 `json:"priority_score"`
	Rank              int                     `json:"rank"`
	IsAssumptionBased bool                    `json:"is_assumption_based"`
}

// KeyMetric is a headline number shown in the analytics summary.
type KeyMetric struct {
	ID    string  `json:"metric_id"`
	Label string  `json:"label"`
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// Summary condenses the analytics part of a report.
type Summary struct {
	KeyMetrics          []KeyMetric `json:"key_metrics"`
	MetricCount         int         `json:"metrics_computed"`
	PatternCount        int         `json:"patterns_detected"`
	AnomalyCount        int         `json:"anomalies_detected"`
	BreakdownCount      int         `json:"breakdowns"`
	RecommendationCount int         `json:"recommendations"`
}

// BenchmarkUsage records a benchmark that was compared against a metric.
type BenchmarkUsage struct {
	MetricID     string  `json:"metric_id"`
	Unit         string  `json:"unit"`
	Source       string  `json:"source"`
	Value        float64 `json:"value"`
	IsAssumption bool    `json:"is_assumption"`
}

// Report is the complete result of an analysis run.
type Report struct {
	GeneratedAt     time.Time                 `json:"generated_at"`
	ID              string                    `json:"id"`
	Vertical        string                    `json:"vertical"`
	Mode            model.ModeInfo            `json:"mode_info"`
	Summary         Summary                   `json:"analytics_summary"`
	Metrics         []model.ComputedMetric    `json:"metrics"`
	Anomalies       []model.DataAnomaly       `json:"anomalies"`
	Patterns        []model.PatternInsight    `json:"patterns"`
	Breakdowns      []model.CategoryBreakdown `json:"breakdowns"`
	Recommendations []Recommendation          `json:"recommendations"`
	BenchmarksUsed  []BenchmarkUsage          `json:"benchmarks_used"`
	DataQuality     panel.DataQuality         `json:"data_quality"`
	TimeCoverage    panel.TimeCoverage        `json:"time_coverage"`
}

// Metric returns a report metric by id.
func (r *Report) Metric(id string) (model.ComputedMetric, bool) {
	for _, m := range r.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return model.ComputedMetric{}, false
}

// TotalImpact sums the mid impact estimate across recommendations.
func (r *Report) TotalImpact() (low, mid, high float64) {
	for _, rec := range r.Recommendations {
		low += rec.Impact.Low
		mid += rec.Impact.Mid
		high += rec.Impact.High
	}
	return low, mid, high
}
