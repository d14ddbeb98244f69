package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/model"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestNewLLMNarrator_RequiresGenerator(t *testing.T) {
	_, err := NewLLMNarrator(nil, "restaurant")
	assert.Error(t, err)
}

func TestLLMNarrator_Prompt(t *testing.T) {
	n, err := NewLLMNarrator(new(MockGenerator), "restaurant")
	require.NoError(t, err)

	rec := NewRecommendation(laborInitiative())
	rec.EvidenceChain = EvidenceChain(laborInitiative())
	prompt, err := n.Prompt(rec, model.ModeInfo{Mode: model.ModePNL, Confidence: 0.95})
	require.NoError(t, err)

	assert.Contains(t, prompt, "restaurant business owner")
	assert.Contains(t, prompt, "Do not introduce, estimate or round any new figures")
	assert.Contains(t, prompt, "Data mode: PNL_MODE (95% confidence)")
	assert.Contains(t, prompt, "Annual impact: $2,790 to $8,370 (method: gap_based)")
	assert.Contains(t, prompt, "- gap_magnitude: current(31.0%) - benchmark(28.0%) = 3.0pp gap")
	assert.Contains(t, prompt, "- Labor gap of 3.0pp can be partially captured")
}

func TestLLMNarrator_Narrate(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return len(p) > 0
	})).Return("  Labor is running hot.\n", nil).Once()

	n, err := NewLLMNarrator(gen, "")
	require.NoError(t, err)

	text, err := n.Narrate(context.Background(), NewRecommendation(laborInitiative()), model.ModeInfo{})
	require.NoError(t, err)
	assert.Equal(t, "Labor is running hot.", text)
	gen.AssertExpectations(t)
}

func TestLLMNarrator_NarrateError(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	n, err := NewLLMNarrator(gen, "restaurant")
	require.NoError(t, err)

	_, err = n.Narrate(context.Background(), NewRecommendation(laborInitiative()), model.ModeInfo{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEnrichmentFailed)
	assert.Contains(t, err.Error(), "timeout")
}
