package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/ledgerlens/internal/model"
)

// CLIFormatter implements ReportFormatter for terminal display.
type CLIFormatter struct {
	styles *Styles
}

// Ensure CLIFormatter implements ReportFormatter.
var _ ReportFormatter = (*CLIFormatter)(nil)

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
	}
}

// NewCLIFormatterWithWidth creates a formatter sized for a terminal width.
func NewCLIFormatterWithWidth(width int) *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles().WithWidth(width),
	}
}

// FormatSummary renders the whole report.
func (f *CLIFormatter) FormatSummary(report *Report) string {
	if report == nil {
		return f.styles.Error.Render("No report available")
	}

	sections := []string{
		f.formatHeader(report),
		f.formatMode(report.Mode),
		f.formatKeyMetrics(report),
	}

	if len(report.Patterns) > 0 {
		sections = append(sections, f.formatPatterns(report.Patterns))
	}
	if len(report.Anomalies) > 0 {
		sections = append(sections, f.formatAnomalies(report.Anomalies))
	}
	sections = append(sections, f.formatRecommendations(report))

	return strings.Join(sections, "\n\n")
}

// FormatRecommendation renders one recommendation with its rationale.
func (f *CLIFormatter) FormatRecommendation(rec Recommendation) string {
	title := f.styles.Score.Render(fmt.Sprintf("#%d %s", rec.Rank, rec.Title))
	meta := f.styles.Subtle.Render(fmt.Sprintf("priority %.2f · confidence %.0f%% · effort %s",
		rec.PriorityScore, rec.Confidence*100, rec.Effort))

	impact := fmt.Sprintf("Annual impact: $%s – $%s (mid $%s)",
		formatMoney(rec.Impact.Low), formatMoney(rec.Impact.High), formatMoney(rec.Impact.Mid))
	impactStyled := f.styles.Success.Render(impact)
	if rec.IsAssumptionBased {
		impactStyled = f.styles.Assumption.Render(impact + " ⚠️ assumption-based")
	}

	parts := []string{
		title,
		meta,
		f.styles.Normal.Render(rec.Headline),
		impactStyled,
		"",
		f.styles.Normal.Render(rec.Rationale),
	}
	return f.styles.RecommendationBox.Render(strings.Join(parts, "\n"))
}

func (f *CLIFormatter) formatHeader(report *Report) string {
	title := f.styles.Title.Render("📊 Business Analytics Report")

	cov := report.TimeCoverage
	period := "Period: no monthly data"
	if !cov.Start.IsZero() {
		period = fmt.Sprintf("Period: %s to %s (%d months)", cov.Start, cov.End, cov.Months)
	}

	lines := []string{
		title,
		f.styles.Subtitle.Render(period),
		f.styles.Subtle.Render(fmt.Sprintf("Vertical: %s", report.Vertical)),
		f.styles.Subtle.Render(fmt.Sprintf("Generated: %s", report.GeneratedAt.Format(time.RFC3339))),
	}
	if report.ID != "" {
		lines = append(lines, f.styles.Subtle.Render("Report: "+report.ID))
	}
	return strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatMode(info model.ModeInfo) string {
	style := f.styles.ForScore(info.Confidence)
	header := style.Render(fmt.Sprintf("Data mode: %s (%.0f%% confidence)", info.Mode, info.Confidence*100))
	bar := style.Render(f.styles.RenderProgressBar(info.Confidence, 30))

	lines := []string{header, bar}
	for _, reason := range info.Reasons {
		lines = append(lines, f.styles.Subtle.Render("  • "+reason))
	}
	return strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatKeyMetrics(report *Report) string {
	title := f.styles.Subtitle.Render("Key Metrics:")
	if len(report.Summary.KeyMetrics) == 0 {
		return title + "\n" + f.styles.Warning.Render("No headline metrics could be computed")
	}

	labelWidth := 28
	var rows []string
	for _, km := range report.Summary.KeyMetrics {
		value := formatMetricValue(km.Value, km.Unit)
		line := fmt.Sprintf("%-*s %s", labelWidth, km.Label, value)
		if m, ok := report.Metric(km.ID); ok && m.HasBenchmark() {
			line += f.gapNote(m)
		}
		rows = append(rows, line)
	}

	counts := f.styles.Subtle.Render(fmt.Sprintf("%d metrics · %d patterns · %d anomalies · %d breakdowns",
		report.Summary.MetricCount, report.Summary.PatternCount,
		report.Summary.AnomalyCount, report.Summary.BreakdownCount))

	return title + "\n" + f.styles.RenderBox(strings.Join(rows, "\n"), "", f.styles.MetricBox) + "\n" + counts
}

func (f *CLIFormatter) gapNote(m model.ComputedMetric) string {
	var style lipgloss.Style
	switch m.GapDirection {
	case model.GapAbove:
		style = f.styles.Warning
	case model.GapBelow:
		style = f.styles.Info
	default:
		style = f.styles.Success
	}
	return style.Render(fmt.Sprintf("  (benchmark %s, %s)", formatMetricValue(*m.Benchmark, m.Unit), m.GapDirection))
}

func (f *CLIFormatter) formatPatterns(patterns []model.PatternInsight) string {
	title := f.styles.Subtitle.Render("🔍 Patterns:")
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		bullet := f.styles.Info.Render("•")
		lines = append(lines, fmt.Sprintf("%s %s %s", bullet, p.Description,
			f.styles.Subtle.Render(fmt.Sprintf("(strength %.2f)", p.Strength))))
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatAnomalies(anomalies []model.DataAnomaly) string {
	title := f.styles.Subtitle.Render("⚠️  Anomalies:")
	lines := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		style := f.styles.ForSeverity(a.Severity)
		lines = append(lines, style.Render(fmt.Sprintf("[%s] %s", a.Severity, a.Description)))
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatRecommendations(report *Report) string {
	title := f.styles.Subtitle.Render("💡 Recommendations:")
	if len(report.Recommendations) == 0 {
		return title + "\n" + f.styles.Warning.Render("No initiatives had enough supporting evidence")
	}

	low, mid, high := report.TotalImpact()
	total := f.styles.Score.Render(fmt.Sprintf("Combined annual opportunity: $%s – $%s (mid $%s)",
		formatMoney(low), formatMoney(high), formatMoney(mid)))

	blocks := []string{title, total}
	for _, rec := range report.Recommendations {
		blocks = append(blocks, f.FormatRecommendation(rec))
	}
	return strings.Join(blocks, "\n")
}

// formatMetricValue renders a value according to its unit.
func formatMetricValue(v float64, unit string) string {
	switch unit {
	case model.UnitCurrency:
		return "$" + formatMoney(v)
	case model.UnitPercentage:
		return fmt.Sprintf("%.1f%%", v)
	case model.UnitPctPerMonth:
		return fmt.Sprintf("%+.2f%%/mo", v)
	case model.UnitPctChange:
		return fmt.Sprintf("%+.1f%%", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
