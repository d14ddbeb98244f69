package testutil

import "github.com/Veraticus/ledgerlens/internal/model"

// RestaurantPNL is six months of restaurant P&L with labor near 30% of
// revenue and COGS near 34%.
func RestaurantPNL() model.Dataset {
	return MonthlyDataset(model.PackPNL, "2024-01", map[string][]float64{
		model.ColRevenue:   {100000, 105000, 98000, 110000, 102000, 108000},
		model.ColLabor:     {30000, 32000, 29000, 33000, 31000, 32000},
		model.ColCOGS:      {34000, 35000, 33500, 36000, 34500, 35500},
		model.ColRent:      {6000, 6000, 6000, 6000, 6000, 6000},
		model.ColUtilities: {2000, 2100, 1900, 2200, 2000, 2100},
	})
}
