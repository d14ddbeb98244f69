package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format func(string) string
		icon   string
	}{
		{"success", FormatSuccess, SuccessIcon},
		{"error", FormatError, ErrorIcon},
		{"warning", FormatWarning, WarningIcon},
		{"info", FormatInfo, InfoIcon},
		{"title", FormatTitle, ChartIcon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("hello")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "hello")
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"id", "value"}, [][]string{
		{"labor_pct", "28.0"},
		{"cogs_pct", "30.0"},
	})
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, out, "labor_pct  28.0")
	assert.Contains(t, out, "cogs_pct   30.0")
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Title", "body")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}

func TestInterruptHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewInterruptHandler(&buf, "Analysis interrupted")
	ctx, stop := h.HandleInterrupts(context.Background())
	defer stop()

	assert.False(t, h.WasInterrupted())
	h.Interrupt()
	h.Interrupt()

	<-ctx.Done()
	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, strings.Count(buf.String(), "Analysis interrupted"))
}

func TestInterruptHandler_StopCancels(t *testing.T) {
	h := NewInterruptHandler(nil, "")
	ctx, stop := h.HandleInterrupts(context.Background())
	stop()
	stop()
	<-ctx.Done()
	assert.False(t, h.WasInterrupted())
}
