package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/ledgerlens/internal/impact"
	"github.com/Veraticus/ledgerlens/internal/metrics"
	"github.com/Veraticus/ledgerlens/internal/mode"
	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/pattern"
	"github.com/Veraticus/ledgerlens/internal/scoring"
)

// Stage names reported to progress callbacks and observers.
const (
	StagePanel     = "panel"
	StageMode      = "mode"
	StageMetrics   = "metrics"
	StagePatterns  = "patterns"
	StageScoring   = "scoring"
	StageImpact    = "impact"
	StageRecommend = "recommendations"
	StageNarrate   = "narrative"
)

// Analyze runs the full pipeline over opts.Dataset. Stages run in a fixed
// order and each reads only what earlier stages produced. The context is
// checked between stages; no stage performs I/O except the optional
// narrative pass.
func (e *Engine) Analyze(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	progress := opts.Progress
	if progress == nil {
		progress = func(string, int) {} // no-op
	}

	started := time.Now()
	run := &stageRunner{ctx: ctx, observer: e.deps.Observer, progress: progress}
	vertical := e.deps.Vertical

	var p *panel.Panel
	if err := run.stage(StagePanel, "Building monthly panel", 10, func() {
		p = panel.Build(opts.Dataset)
	}); err != nil {
		return nil, err
	}

	var info model.ModeInfo
	if err := run.stage(StageMode, "Classifying data mode", 20, func() {
		info = mode.Classify(p)
	}); err != nil {
		return nil, err
	}

	var computed []model.ComputedMetric
	if err := run.stage(StageMetrics, "Computing metrics", 35, func() {
		computed = metrics.Compute(p, vertical.Signals)
	}); err != nil {
		return nil, err
	}

	var detected pattern.Result
	if err := run.stage(StagePatterns, "Detecting patterns", 50, func() {
		detected = pattern.Run(pattern.Input{Panel: p, Dataset: opts.Dataset}, e.deps.Detectors...)
		computed = append(computed, detected.Metrics...)
		computed = metrics.ApplyBenchmarks(computed, vertical.Benchmarks)
	}); err != nil {
		return nil, err
	}

	quality := p.Quality()
	coverage := p.Coverage()

	var scored []model.ScoredInitiative
	if err := run.stage(StageScoring, "Scoring initiatives", 65, func() {
		scorer := scoring.New(scoring.Inputs{
			Benchmarks: vertical.Benchmarks,
			Mode:       info,
			Quality:    quality,
			Coverage:   coverage,
			Metrics:    computed,
			Patterns:   detected.Patterns,
			Breakdowns: detected.Breakdowns,
		}, scoring.Options{
			Constraints: opts.Constraints,
			Blacklist:   opts.Blacklist,
			Boosts:      opts.Boosts,
		})
		scored = scorer.ScoreAll(vertical.Initiatives)
	}); err != nil {
		return nil, err
	}

	if err := run.stage(StageImpact, "Estimating impact", 75, func() {
		impact.NewEstimator(computed).Apply(scored)
	}); err != nil {
		return nil, err
	}

	limit := opts.MaxRecommendations
	if limit == 0 {
		limit = info.Mode.MaxRecommendations()
	}

	var recs []Recommendation
	if err := run.stage(StageRecommend, "Building recommendations", 85, func() {
		if len(scored) > limit {
			scored = scored[:limit]
		}
		recs = make([]Recommendation, 0, len(scored))
		for _, si := range scored {
			recs = append(recs, NewRecommendation(si))
		}
	}); err != nil {
		return nil, err
	}

	if opts.Narrate && e.deps.Narrator != nil {
		if err := run.stage(StageNarrate, "Writing narrative", 95, func() {
			e.narrate(ctx, recs, info)
		}); err != nil {
			return nil, err
		}
	}

	report := &Report{
		ID:              uuid.New().String(),
		GeneratedAt:     e.now(),
		Vertical:        vertical.ID,
		Mode:            info,
		Metrics:         nonNilSlice(computed),
		Anomalies:       nonNilSlice(detected.Anomalies),
		Patterns:        nonNilSlice(detected.Patterns),
		Breakdowns:      nonNilSlice(detected.Breakdowns),
		Recommendations: recs,
		BenchmarksUsed:  benchmarkUsage(metrics.BenchmarksUsed(computed, vertical.Benchmarks)),
		DataQuality:     quality,
		TimeCoverage:    coverage,
	}
	report.Summary = summarize(report)

	progress("Analysis complete", 100)
	slog.Info("Analysis complete",
		"report_id", report.ID,
		"vertical", report.Vertical,
		"mode", info.Mode,
		"months", coverage.Months,
		"metrics", len(report.Metrics),
		"patterns", len(report.Patterns),
		"anomalies", len(report.Anomalies),
		"recommendations", len(report.Recommendations),
	)
	if e.deps.Observer != nil {
		e.deps.Observer.ObserveRun(report, time.Since(started))
	}
	return report, nil
}

// narrate appends prose to each rationale. Failures leave the deterministic
// rationale untouched.
func (e *Engine) narrate(ctx context.Context, recs []Recommendation, info model.ModeInfo) {
	for i := range recs {
		text, err := e.deps.Narrator.Narrate(ctx, recs[i], info)
		if err != nil {
			slog.Warn("Failed to write narrative",
				"initiative", recs[i].InitiativeID,
				"error", err)
			continue
		}
		if text == "" {
			continue
		}
		recs[i].Rationale += "\n\nSUMMARY:\n" + text
	}
}

type stageRunner struct {
	ctx      context.Context
	observer Observer
	progress ProgressFunc
}

func (r *stageRunner) stage(name, label string, percent int, fn func()) error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("analysis canceled before %s stage: %w", name, err)
	}
	r.progress(label, percent)
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	slog.Debug("Stage complete", "stage", name, "duration", elapsed)
	if r.observer != nil {
		r.observer.ObserveStage(name, elapsed)
	}
	return nil
}

func summarize(r *Report) Summary {
	s := Summary{
		KeyMetrics:          []KeyMetric{},
		MetricCount:         len(r.Metrics),
		PatternCount:        len(r.Patterns),
		AnomalyCount:        len(r.Anomalies),
		BreakdownCount:      len(r.Breakdowns),
		RecommendationCount: len(r.Recommendations),
	}
	for _, id := range KeyMetricIDs {
		if m, ok := r.Metric(id); ok {
			s.KeyMetrics = append(s.KeyMetrics, KeyMetric{ID: m.ID, Label: m.Label, Unit: m.Unit, Value: m.Value})
		}
	}
	return s
}

// KeyMetricIDs are the metrics surfaced in the analytics summary.
var KeyMetricIDs = []string{
	"revenue_avg_monthly",
	"labor_avg_monthly",
	"cogs_avg_monthly",
	"labor_pct",
	"cogs_pct",
	"gross_margin_pct",
	"revenue_trend",
	"labor_volatility",
}

func benchmarkUsage(bs []model.Benchmark) []BenchmarkUsage {
	out := make([]BenchmarkUsage, 0, len(bs))
	for _, b := range bs {
		out = append(out, BenchmarkUsage{
			MetricID:     b.MetricID,
			Unit:         b.Unit,
			Source:       b.Source,
			Value:        b.Value,
			IsAssumption: b.IsAssumption(),
		})
	}
	return out
}

func nonNilSlice[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
