package reference

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/model"
)

// legacyTypes maps older catalog type names onto canonical types.
var legacyTypes = map[string]model.InitiativeType{
	"labor efficiency":     model.InitiativeLabor,
	"revenue optimization": model.InitiativePricing,
	"cost control":         model.InitiativeCost,
	"operations":           model.InitiativeOperations,
	"marketing":            model.InitiativeMarketing,
}

// ParseInitiativeType resolves a catalog type name, accepting canonical
// names in any case and the legacy display names.
func ParseInitiativeType(name string) (model.InitiativeType, error) {
	trimmed := strings.TrimSpace(name)
	canonical := model.InitiativeType(strings.ToUpper(trimmed))
	if canonical.Valid() {
		return canonical, nil
	}
	if t, ok := legacyTypes[strings.ToLower(trimmed)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown initiative type %q", name)
}

var defaultCatalog = []model.Initiative{
	{
		ID:          "labor_scheduling",
		Title:       "Align staff scheduling with demand",
		Category:    "Labor Efficiency",
		Type:        model.InitiativeLabor,
		Description: "Match scheduled hours to monthly and weekly demand so labor tracks revenue.",
		Eligibility: model.Eligibility{MinMonths: 3},
		Sizing:      model.SizingHint{Method: "percentage_of_labor", Low: 0.03, Mid: 0.05, High: 0.08},
	},
	{
		ID:          "overtime_control",
		Title:       "Cut overtime and shift overlap",
		Category:    "Labor Efficiency",
		Type:        model.InitiativeLabor,
		Description: "Cap overtime and trim overlapping shifts during slow periods.",
		Eligibility: model.Eligibility{MinMonths: 2, RequiresData: []model.PackType{model.PackLabor}},
		Sizing:      model.SizingHint{Method: "percentage_of_labor", Low: 0.01, Mid: 0.02, High: 0.04},
	},
	{
		ID:          "menu_price_review",
		Title:       "Targeted menu price increases",
		Category:    "Revenue Optimization",
		Type:        model.InitiativePricing,
		Description: "Raise prices on high-demand items where margin is below benchmark.",
		Eligibility: model.Eligibility{MinMonths: 3},
		Sizing:      model.SizingHint{Method: "percentage_of_revenue", Low: 0.01, Mid: 0.02, High: 0.03},
	},
	{
		ID:          "supplier_renegotiation",
		Title:       "Renegotiate supplier contracts",
		Category:    "Cost Control",
		Type:        model.InitiativeCost,
		Description: "Re-bid the largest supply categories and consolidate vendors.",
		Eligibility: model.Eligibility{MinMonths: 3},
		Sizing:      model.SizingHint{Method: "percentage_of_cogs", Low: 0.02, Mid: 0.04, High: 0.06},
	},
	{
		ID:          "slow_period_programs",
		Title:       "Fill slow periods",
		Category:    "Operations",
		Type:        model.InitiativeThroughput,
		Description: "Run programs aimed at the weakest months and weekdays to lift utilization.",
		Eligibility: model.Eligibility{MinMonths: 6},
		Sizing:      model.SizingHint{Method: "percentage_of_revenue", Low: 0.01, Mid: 0.02, High: 0.04},
	},
	{
		ID:          "discount_audit",
		Title:       "Audit discounts and comps",
		Category:    "Revenue Optimization",
		Type:        model.InitiativeDiscount,
		Description: "Review discount and comp policies and tighten approval rules.",
		Eligibility: model.Eligibility{MinMonths: 2},
		Sizing:      model.SizingHint{Method: "percentage_of_revenue", Low: 0.005, Mid: 0.01, High: 0.02},
	},
	{
		ID:          "waste_tracking",
		Title:       "Track and reduce food waste",
		Category:    "Cost Control",
		Type:        model.InitiativeWaste,
		Description: "Log waste by item and adjust prep levels and portioning.",
		Eligibility: model.Eligibility{MinMonths: 3},
		Sizing:      model.SizingHint{Method: "percentage_of_cogs", Low: 0.01, Mid: 0.02, High: 0.03},
	},
	{
		ID:          "local_marketing",
		Title:       "Local marketing push",
		Category:    "Marketing",
		Type:        model.InitiativeMarketing,
		Description: "Targeted local campaigns around the strongest and weakest periods.",
		Eligibility: model.Eligibility{MinMonths: 3},
		Sizing:      model.SizingHint{Method: "fixed_value", Low: 5000, Mid: 12000, High: 25000},
	},
	{
		ID:          "operations_review",
		Title:       "Operating cost review",
		Category:    "Operations",
		Type:        model.InitiativeOperations,
		Description: "Walk through rent, utilities and other fixed costs line by line.",
		Eligibility: model.Eligibility{MinMonths: 1},
		Sizing:      model.SizingHint{Method: "fixed_value", Low: 3000, Mid: 8000, High: 15000},
	},
}

// DefaultCatalog returns a copy of the built-in initiative catalog.
func DefaultCatalog() []model.Initiative {
	out := make([]model.Initiative, len(defaultCatalog))
	for i, init := range defaultCatalog {
		init.Eligibility.RequiresData = append([]model.PackType(nil), init.Eligibility.RequiresData...)
		out[i] = init
	}
	return out
}

var defaultSignals = []model.Signal{
	{
		ID:       "latest_labor_pct",
		Label:    "Labor % (Most Recent Month)",
		Unit:     model.UnitPercentage,
		Op:       model.SignalRatio,
		Operands: []string{model.ColLabor, model.ColRevenue},
		Scale:    100,
	},
	{
		ID:       "latest_gross_profit",
		Label:    "Gross Profit (Most Recent Month)",
		Unit:     model.UnitCurrency,
		Op:       model.SignalDifference,
		Operands: []string{model.ColRevenue, model.ColCOGS},
	},
}

// DefaultSignals returns a copy of the built-in signal definitions.
func DefaultSignals() []model.Signal {
	out := make([]model.Signal, len(defaultSignals))
	for i, s := range defaultSignals {
		s.Operands = append([]string(nil), s.Operands...)
		out[i] = s
	}
	return out
}
