// Package reference holds the read-only reference data an analysis is
// scored against: benchmark tables, the initiative catalog and derived
// signals for each vertical.
package reference

import "github.com/Veraticus/ledgerlens/internal/model"

// Vertical identifiers with built-in reference data.
const (
	VerticalRestaurant = "restaurant"
	VerticalGeneral    = "general"
)

var restaurantBenchmarks = []model.Benchmark{
	{
		MetricID:      "labor_pct",
		Value:         28.0,
		Unit:          model.UnitPercentage,
		Source:        "National Restaurant Association 2023 State of the Industry",
		Confidence:    0.85,
		Applicability: "full_service_restaurant",
		Notes:         "Full-service restaurants typically range 28-35%. QSR is lower (25-30%).",
	},
	{
		MetricID:      "labor_pct_qsr",
		Value:         25.0,
		Unit:          model.UnitPercentage,
		Source:        "National Restaurant Association 2023",
		Confidence:    0.85,
		Applicability: "qsr",
		Notes:         "Quick-service restaurants run leaner labor.",
	},
	{
		MetricID:      "cogs_pct",
		Value:         30.0,
		Unit:          model.UnitPercentage,
		Source:        "Restaurant industry standard",
		Confidence:    0.80,
		Applicability: "full_service_restaurant",
		Notes:         "Food cost typically 28-35% for full service. Varies by cuisine type.",
	},
	{
		MetricID:      "cogs_pct_qsr",
		Value:         32.0,
		Unit:          model.UnitPercentage,
		Source:        "QSR industry reports",
		Confidence:    0.75,
		Applicability: "qsr",
		Notes:         "QSR food cost runs slightly higher, offset by lower labor.",
	},
	{
		MetricID:      "gross_margin_pct",
		Value:         70.0,
		Unit:          model.UnitPercentage,
		Source:        "Derived from COGS benchmark",
		Confidence:    0.80,
		Applicability: "full_service_restaurant",
		Notes:         "100% - COGS%. Healthy restaurants maintain 65-75%.",
	},
	{
		MetricID:      "net_margin_pct",
		Value:         5.0,
		Unit:          model.UnitPercentage,
		Source:        "National Restaurant Association",
		Confidence:    0.75,
		Applicability: "all",
		Notes:         "Restaurant net margins are thin. 3-9% is typical.",
	},
	{
		MetricID:      "rent_pct",
		Value:         6.0,
		Unit:          model.UnitPercentage,
		Source:        "Industry rule of thumb",
		Confidence:    0.70,
		Applicability: "all",
		Notes:         "Rent should ideally be 5-8% of revenue. Above 10% is concerning.",
	},
	{
		MetricID:      "prime_cost_pct",
		Value:         60.0,
		Unit:          model.UnitPercentage,
		Source:        "Restaurant industry standard",
		Confidence:    0.85,
		Applicability: "full_service_restaurant",
		Notes:         "Prime cost (labor + food) should be under 65%. Under 60% is excellent.",
	},
	{
		MetricID:      "revenue_per_sqft_annual",
		Value:         500.0,
		Unit:          "currency_per_sqft",
		Source:        "ASSUMPTION - varies widely by location and concept",
		Confidence:    0.50,
		Applicability: "full_service_restaurant",
		Notes:         "$300-$800 is the typical range.",
	},
	{
		MetricID:      "revenue_volatility_cv",
		Value:         0.15,
		Unit:          model.UnitCV,
		Source:        "ASSUMPTION - based on typical monthly variance",
		Confidence:    0.60,
		Applicability: "all",
		Notes:         "CV < 0.15 is stable. > 0.25 indicates high volatility.",
	},
	{
		MetricID:      "labor_volatility_cv",
		Value:         0.10,
		Unit:          model.UnitCV,
		Source:        "ASSUMPTION - labor should be more stable than revenue",
		Confidence:    0.60,
		Applicability: "all",
	},
	{
		MetricID:      "revenue_growth_monthly",
		Value:         0.5,
		Unit:          model.UnitPctPerMonth,
		Source:        "ASSUMPTION - healthy growth expectation",
		Confidence:    0.50,
		Applicability: "all",
		Notes:         "0.5% monthly is roughly 6% annual.",
	},
	{
		MetricID:      "labor_revenue_correlation",
		Value:         0.80,
		Unit:          model.UnitCorrelation,
		Source:        "ASSUMPTION - well-managed operations",
		Confidence:    0.65,
		Applicability: "all",
		Notes:         "r < 0.7 suggests scheduling issues.",
	},
	{
		MetricID:      "discount_rate_pct",
		Value:         3.0,
		Unit:          model.UnitPercentage,
		Source:        "ASSUMPTION - healthy discount level",
		Confidence:    0.55,
		Applicability: "all",
		Notes:         "Discounts above 5% of revenue suggest over-reliance on promotions.",
	},
}

var generalBenchmarks = []model.Benchmark{
	{
		MetricID:      "labor_pct",
		Value:         30.0,
		Unit:          model.UnitPercentage,
		Source:        "ASSUMPTION - varies widely by industry",
		Confidence:    0.40,
		Applicability: "general",
		Notes:         "Service businesses typically 25-40%.",
	},
	{
		MetricID:      "gross_margin_pct",
		Value:         50.0,
		Unit:          model.UnitPercentage,
		Source:        "ASSUMPTION - median across industries",
		Confidence:    0.40,
		Applicability: "general",
		Notes:         "30-70% depending on industry.",
	},
}

// builtinBenchmarks returns the built-in table for a vertical id. Any id
// starting with "restaurant" uses the restaurant table.
func builtinBenchmarks(verticalID string) []model.Benchmark {
	if isRestaurant(verticalID) {
		return append([]model.Benchmark(nil), restaurantBenchmarks...)
	}
	return append([]model.Benchmark(nil), generalBenchmarks...)
}
