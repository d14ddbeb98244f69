package analysis

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/ledgerlens/internal/cli"
	"github.com/Veraticus/ledgerlens/internal/model"
)

// Styles contains all styling definitions for report formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	// Report-specific styles
	Box               lipgloss.Style
	Score             lipgloss.Style
	High              lipgloss.Style
	Medium            lipgloss.Style
	Low               lipgloss.Style
	MetricBox         lipgloss.Style
	PatternBox        lipgloss.Style
	RecommendationBox lipgloss.Style
	Assumption        lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.High = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor)

	s.Medium = lipgloss.NewStyle().
		Foreground(cli.WarningColor)

	s.Low = lipgloss.NewStyle().
		Foreground(cli.SubtleColor)

	s.MetricBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.InfoColor).
		Padding(0, 1).
		MarginTop(1)

	s.PatternBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SuccessColor).
		Padding(0, 1).
		MarginTop(1)

	s.RecommendationBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(cli.PrimaryColor).
		Padding(0, 1).
		MarginTop(1)

	s.Assumption = lipgloss.NewStyle().
		Italic(true).
		Foreground(cli.WarningColor)

	return s
}

// WithWidth returns a copy adjusted for the given terminal width.
func (s *Styles) WithWidth(width int) *Styles {
	newStyles := *s
	if width > 0 && width < 100 {
		newStyles.Box = s.Box.Width(width - 4)
		newStyles.MetricBox = s.MetricBox.Width(width - 4)
		newStyles.PatternBox = s.PatternBox.Width(width - 4)
		newStyles.RecommendationBox = s.RecommendationBox.Width(width - 4)
	}
	return &newStyles
}

// ForSeverity returns the style for an anomaly severity.
func (s *Styles) ForSeverity(severity model.Severity) lipgloss.Style {
	switch severity {
	case model.SeverityHigh:
		return s.High
	case model.SeverityMedium:
		return s.Medium
	case model.SeverityLow:
		return s.Low
	default:
		return s.Normal
	}
}

// ForScore returns the style for a 0-1 score such as confidence.
func (s *Styles) ForScore(score float64) lipgloss.Style {
	switch {
	case score >= 0.7:
		return s.Success
	case score >= 0.4:
		return s.Warning
	default:
		return s.Error
	}
}

// RenderProgressBar renders a 0-1 value as a bar of the given width.
func (s *Styles) RenderProgressBar(progress float64, width int) string {
	if width <= 0 {
		width = 30
	}
	filled := int(float64(width) * progress)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderBox renders content in a styled box with an optional title line.
func (s *Styles) RenderBox(content string, title string, style lipgloss.Style) string {
	if title != "" {
		titleStyled := s.Info.Bold(true).Render(" " + title + " ")
		return style.Render(titleStyled + "\n" + content)
	}
	return style.Render(content)
}
