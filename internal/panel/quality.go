package panel

import (
	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

// DataQuality summarizes how complete the panel is.
type DataQuality struct {
	ColumnCompleteness  map[string]float64     `json:"column_completeness"`
	PackRowCounts       map[model.PackType]int `json:"pack_row_counts"`
	OverallCompleteness float64                `json:"overall_completeness"`
	PanelRows           int                    `json:"panel_rows"`
	PanelColumns        int                    `json:"panel_columns"`
	Conflicts           int                    `json:"conflicts"`
}

// MonthGap is a run of missing months between two present months.
type MonthGap struct {
	After         model.Month `json:"after"`
	Before        model.Month `json:"before"`
	MissingMonths int         `json:"missing_months"`
}

// TimeCoverage describes the panel's month span.
type TimeCoverage struct {
	Start          model.Month      `json:"start"`
	End            model.Month      `json:"end"`
	Gaps           []MonthGap       `json:"gaps"`
	PacksAvailable []model.PackType `json:"packs_available"`
	Months         int              `json:"months"`
}

// Completeness returns the share of non-null cells across the whole panel.
func (p *Panel) Completeness() float64 {
	total := len(p.months) * len(p.columns)
	if total == 0 {
		return 0
	}
	filled := 0
	for _, col := range p.columns {
		filled += p.NonNullCount(col)
	}
	return float64(filled) / float64(total)
}

// Quality computes the data-quality summary.
func (p *Panel) Quality() DataQuality {
	q := DataQuality{
		ColumnCompleteness:  make(map[string]float64, len(p.columns)),
		PackRowCounts:       make(map[model.PackType]int, len(p.rowCounts)),
		OverallCompleteness: stats.Round(p.Completeness(), 3),
		PanelRows:           len(p.months),
		PanelColumns:        len(p.columns),
		Conflicts:           len(p.conflicts),
	}
	for _, col := range p.columns {
		share := 0.0
		if len(p.months) > 0 {
			share = float64(p.NonNullCount(col)) / float64(len(p.months))
		}
		q.ColumnCompleteness[col] = stats.Round(share, 3)
	}
	for pack, n := range p.rowCounts {
		q.PackRowCounts[pack] = n
	}
	return q
}

// Coverage computes the time-coverage summary, including gaps where months
// are missing between present ones.
func (p *Panel) Coverage() TimeCoverage {
	c := TimeCoverage{
		Months:         len(p.months),
		PacksAvailable: p.Packs(),
		Gaps:           []MonthGap{},
	}
	if len(p.months) == 0 {
		return c
	}
	c.Start = p.months[0]
	c.End = p.months[len(p.months)-1]
	for i := 1; i < len(p.months); i++ {
		diff := model.MonthsBetween(p.months[i-1], p.months[i])
		if diff > 1 {
			c.Gaps = append(c.Gaps, MonthGap{
				After:         p.months[i-1],
				Before:        p.months[i],
				MissingMonths: diff - 1,
			})
		}
	}
	return c
}
