package calc

import "github.com/fullbor/finance-mcp/internal/models"

// TotalMarketValue sums settle-date market value; missing values count as 0.
func TotalMarketValue(positions []models.Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.MarketValue()
	}
	return total
}

// DailyPnL is today's total market value minus yesterday's. Instruments are
// not matched between the two snapshots, so both must cover the same scope.
func DailyPnL(today, yesterday []models.Position) float64 {
	return TotalMarketValue(today) - TotalMarketValue(yesterday)
}
