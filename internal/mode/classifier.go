// Package mode rates how much an analysis can be trusted given the data
// that was supplied.
package mode

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/ledgerlens/internal/model"
	"github.com/Veraticus/ledgerlens/internal/panel"
	"github.com/Veraticus/ledgerlens/internal/stats"
)

const (
	pnlMinMonths         = 3
	pnlBaseConfidence    = 0.7
	pnlMaxConfidence     = 0.95
	opsMinMonths         = 2
	opsBaseConfidence    = 0.5
	opsMaxConfidence     = 0.75
	highCompleteness     = 0.8
	trendMonths          = 6
	opsExtendedMonths    = 4
	directionalBase      = 0.3
	directionalWithData  = 0.4
	directionalWithCores = 0.45
)

// Classify evaluates PNL, OPS and DIRECTIONAL modes in priority order and
// returns the first that applies together with the reasons for it.
func Classify(p *panel.Panel) model.ModeInfo {
	months := p.Len()
	completeness := stats.Round(p.Completeness(), 3)

	hasRevenueCol := p.NonNullCount(model.ColRevenue) > 0
	hasLaborCol := p.NonNullCount(model.ColLabor) > 0
	hasCOGSCol := p.NonNullCount(model.ColCOGS) > 0

	hasPNL := p.HasRows(model.PackPNL)
	hasRevenue := p.HasRows(model.PackRevenue)
	hasLabor := p.HasRows(model.PackLabor)

	info := model.ModeInfo{
		MonthsAvailable: months,
		DataPacks:       p.Packs(),
	}

	var confidence float64
	switch {
	case hasPNL && months >= pnlMinMonths && hasRevenueCol:
		info.Mode = model.ModePNL
		confidence = pnlBaseConfidence
		info.Reasons = append(info.Reasons, fmt.Sprintf("P&L data with %d months", months))
		if hasLaborCol {
			confidence += 0.1
			info.Reasons = append(info.Reasons, "Labor data available")
		}
		if hasCOGSCol {
			confidence += 0.05
			info.Reasons = append(info.Reasons, "COGS data available")
		}
		if months >= trendMonths {
			confidence += 0.05
			info.Reasons = append(info.Reasons, "6+ months enables trend analysis")
		}
		if completeness >= highCompleteness {
			confidence += 0.05
			info.Reasons = append(info.Reasons, "High data completeness")
		}
		confidence = min(pnlMaxConfidence, confidence)

	case (hasRevenue || hasLabor) && months >= opsMinMonths:
		info.Mode = model.ModeOps
		confidence = opsBaseConfidence
		info.Reasons = append(info.Reasons, "Operational data available")
		if hasRevenue && hasLabor {
			confidence += 0.15
			info.Reasons = append(info.Reasons, "Both revenue and labor present")
		}
		if months >= opsExtendedMonths {
			confidence += 0.1
			info.Reasons = append(info.Reasons, "4+ months of data")
		}
		confidence = min(opsMaxConfidence, confidence)

	default:
		info.Mode = model.ModeDirectional
		confidence = directionalBase
		info.Reasons = append(info.Reasons, "Limited data - directional insights only")
		if months >= 1 {
			confidence = directionalWithData
		}
		if hasRevenueCol || hasLaborCol {
			confidence = directionalWithCores
		}
	}

	info.Confidence = stats.Round(confidence, 2)

	slog.Debug("Classified analysis mode",
		"mode", info.Mode,
		"confidence", info.Confidence,
		"months", months,
		"completeness", completeness)

	return info
}
