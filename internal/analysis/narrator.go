package analysis

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMNarrator adapts a TextGenerator to the Narrator interface.
type LLMNarrator struct {
	generator TextGenerator
	tmpl      *template.Template
	vertical  string
}

// Ensure LLMNarrator implements Narrator.
var _ Narrator = (*LLMNarrator)(nil)

// NewLLMNarrator creates a narrator that prompts the generator with the
// recommendation's computed evidence.
func NewLLMNarrator(generator TextGenerator, vertical string) (*LLMNarrator, error) {
	if generator == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	tmpl, err := template.New("narrative.tmpl").
		Funcs(template.FuncMap{"money": formatMoney}).
		ParseFS(templateFS, "templates/narrative.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse narrative template: %w", err)
	}
	if vertical == "" {
		vertical = "small"
	}
	return &LLMNarrator{generator: generator, tmpl: tmpl, vertical: vertical}, nil
}

type narrativeData struct {
	Vertical       string
	Mode           model.Mode
	Rec            Recommendation
	ModeConfidence float64
}

// Prompt renders the prompt sent for a recommendation.
func (n *LLMNarrator) Prompt(rec Recommendation, info model.ModeInfo) (string, error) {
	var buf bytes.Buffer
	err := n.tmpl.Execute(&buf, narrativeData{
		Vertical:       n.vertical,
		Mode:           info.Mode,
		ModeConfidence: info.Confidence * 100,
		Rec:            rec,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render narrative prompt: %w", err)
	}
	return buf.String(), nil
}

// Narrate implements Narrator.
func (n *LLMNarrator) Narrate(ctx context.Context, rec Recommendation, info model.ModeInfo) (string, error) {
	prompt, err := n.Prompt(rec, info)
	if err != nil {
		return "", err
	}
	text, err := n.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrEnrichmentFailed, err)
	}
	return strings.TrimSpace(text), nil
}
