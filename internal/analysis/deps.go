// Package analysis orchestrates a deterministic analytics run: it builds the
// monthly panel, classifies the data mode, computes metrics and patterns,
// scores the initiative catalog and assembles explained recommendations.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/pattern"
	"github.com/Veraticus/ledgerlens/internal/reference"
)

// Narrator writes optional prose for a finished recommendation. The prose is
// appended to the rationale and never changes computed numbers.
type Narrator interface {
	Narrate(ctx context.Context, rec Recommendation, mode model.ModeInfo) (string, error)
}

// Observer receives timing information about a run.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	ObserveRun(report *Report, d time.Duration)
}

// ReportStore persists finished reports.
type ReportStore interface {
	SaveReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, reportID string) (*Report, error)
}

// ReportFormatter renders reports for display.
type ReportFormatter interface {
	FormatSummary(report *Report) string
	FormatRecommendation(rec Recommendation) string
}

// Deps contains the dependencies of the analysis engine.
type Deps struct {
	// Vertical supplies benchmarks, the initiative catalog and signals.
	Vertical *reference.Vertical
	// Narrator optionally appends prose to rationales.
	Narrator Narrator
	// Observer optionally records stage timings.
	Observer Observer
	// Detectors overrides the default pattern detectors.
	Detectors []pattern.Detector
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Vertical == nil {
		return fmt.Errorf("vertical reference data is required")
	}
	if d.Vertical.Benchmarks == nil {
		return fmt.Errorf("vertical %q has no benchmark table", d.Vertical.ID)
	}
	return nil
}

// Engine runs analyses. It holds only read-only reference data and is safe
// for concurrent use.
type Engine struct {
	deps Deps
	now  func() time.Time
}

// NewEngine creates a new analysis engine with the provided dependencies.
func NewEngine(deps Deps) (*Engine, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if len(deps.Detectors) == 0 {
		deps.Detectors = pattern.DefaultDetectors()
	}
	return &Engine{
		deps: deps,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}
