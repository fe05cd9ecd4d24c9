package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullbor/finance-mcp/internal/models"
)

func position(instrumentID int64, name string, units, mv float64, currency string) models.Position {
	return models.Position{
		InstrumentEntityID: instrumentID,
		InstrumentName:     name,
		SettleDateUnits:    models.Float(units),
		SettleDateMV:       models.Float(mv),
		SettleCurrency:     currency,
	}
}

func buy(instrumentID int64, units, amount float64) models.Transaction {
	return models.Transaction{
		InstrumentEntityID:  instrumentID,
		TransactionTypeName: "Buy",
		Units:               models.Float(units),
		Amount:              models.Float(amount),
	}
}

func TestUnrealizedGains_IBMScenario(t *testing.T) {
	positions := []models.Position{position(1, "IBM", 10, 1500, "USD")}
	transactions := []models.Transaction{buy(1, 10, 1000)}

	gains := UnrealizedGains(positions, transactions)
	require.Len(t, gains, 1)

	g := gains[0]
	assert.Equal(t, "IBM", g.Symbol)
	assert.Equal(t, 10.0, g.Quantity)
	assert.InDelta(t, 100, g.AvgCost, 1e-9)
	assert.InDelta(t, 150, g.CurrentPrice, 1e-9)
	assert.InDelta(t, 1000, g.CostBasis, 1e-9)
	assert.InDelta(t, 1500, g.MarketValue, 1e-9)
	assert.InDelta(t, 500, g.UnrealizedGain, 1e-9)
	assert.InDelta(t, 50, g.UnrealizedGainPct, 1e-9)
	assert.Equal(t, "USD", g.Currency)
}

func TestUnrealizedGains_OnlyBuysAffectCost(t *testing.T) {
	positions := []models.Position{position(1, "IBM", 10, 1500, "USD")}
	base := []models.Transaction{buy(1, 10, 1000)}
	noise := append([]models.Transaction{}, base...)
	noise = append(noise,
		models.Transaction{InstrumentEntityID: 1, TransactionTypeName: "Sell", Units: models.Float(5), Amount: models.Float(900)},
		models.Transaction{InstrumentEntityID: 1, TransactionTypeName: "Dividend", Amount: models.Float(12)},
		models.Transaction{InstrumentEntityID: 1, Units: models.Float(100), Amount: models.Float(1)},
	)

	assert.Equal(t, UnrealizedGains(positions, base), UnrealizedGains(positions, noise))
}

func TestUnrealizedGains_SkipsAndFallbacks(t *testing.T) {
	positions := []models.Position{
		{SettleDateUnits: models.Float(5), SettleDateMV: models.Float(50)},
		{InstrumentEntityID: 2, SettleDateUnits: models.Float(5)},
		position(3, "ZERO", 0, 100, "USD"),
		position(4, "", 2, 30, "EUR"),
	}
	transactions := []models.Transaction{
		{TransactionTypeName: "Buy", Units: models.Float(1), Amount: models.Float(1)},
	}

	gains := UnrealizedGains(positions, transactions)
	require.Len(t, gains, 1)
	assert.Equal(t, "Instrument 4", gains[0].Symbol)
	assert.Zero(t, gains[0].AvgCost, "no buys means zero average cost")
	assert.Zero(t, gains[0].UnrealizedGainPct, "zero basis means zero percent")
	assert.Equal(t, 30.0, gains[0].UnrealizedGain)
}

func TestUnrealizedGains_MissingBuyFieldsCountAsZero(t *testing.T) {
	positions := []models.Position{position(1, "ACME", 10, 100, "USD")}
	transactions := []models.Transaction{
		buy(1, 10, 50),
		{InstrumentEntityID: 1, TransactionTypeName: "buy", Amount: models.Float(50)},
	}

	gains := UnrealizedGains(positions, transactions)
	require.Len(t, gains, 1)
	assert.InDelta(t, 10, gains[0].AvgCost, 1e-9)
}

func TestUnrealizedGains_SortedByAbsoluteGain(t *testing.T) {
	positions := []models.Position{
		position(1, "SMALL", 1, 110, "USD"),
		position(2, "LOSS", 1, 20, "USD"),
		position(3, "BIG", 1, 300, "USD"),
		position(4, "FLAT", 1, 100, "USD"),
	}
	transactions := []models.Transaction{
		buy(1, 1, 100), buy(2, 1, 120), buy(3, 1, 100), buy(4, 1, 100),
	}

	gains := UnrealizedGains(positions, transactions)
	require.Len(t, gains, 4)

	var symbols []string
	for i, g := range gains {
		symbols = append(symbols, g.Symbol)
		assert.NotZero(t, g.Quantity)
		if i > 0 {
			assert.GreaterOrEqual(t, math.Abs(gains[i-1].UnrealizedGain), math.Abs(g.UnrealizedGain))
		}
	}
	assert.Equal(t, []string{"BIG", "LOSS", "SMALL", "FLAT"}, symbols)
}

func TestUnrealizedGains_DoesNotMutateInputs(t *testing.T) {
	positions := []models.Position{position(2, "B", 1, 10, "USD"), position(1, "A", 1, 500, "USD")}
	before := append([]models.Position{}, positions...)

	UnrealizedGains(positions, nil)
	assert.Equal(t, before, positions)
}

func TestSummarizeGains(t *testing.T) {
	gains := []PositionGain{
		{UnrealizedGain: 500, CostBasis: 1000},
		{UnrealizedGain: -100, CostBasis: 1000},
	}
	s := SummarizeGains(gains)
	assert.Equal(t, 400.0, s.TotalUnrealizedGain)
	assert.Equal(t, 2000.0, s.TotalCostBasis)
	assert.InDelta(t, 20, s.TotalUnrealizedGainPct, 1e-9)
	assert.Equal(t, 2, s.PositionCount)

	assert.Zero(t, SummarizeGains(nil).TotalUnrealizedGainPct)
}

func TestPortfolioAllocation_BySymbol(t *testing.T) {
	positions := []models.Position{
		position(1, "IBM", 10, 1500, "USD"),
		position(2, "AAPL", 5, 500, "USD"),
		position(1, "IBM", 1, 1000, "USD"),
		{InstrumentAccountName: "Cash Account", SettleDateUnits: models.Float(1), SettleDateMV: models.Float(250)},
		{SettleDateUnits: models.Float(1), SettleDateMV: models.Float(250)},
		position(3, "ZERO", 10, 0, "USD"),
		{InstrumentName: "UNSETTLED", SettleDateUnits: models.Float(1)},
	}

	alloc := PortfolioAllocation(positions, "")
	require.Len(t, alloc.Items, 4)
	assert.Equal(t, 3500.0, alloc.TotalValue)

	assert.Equal(t, "IBM", alloc.Items[0].Name)
	assert.Equal(t, 2500.0, alloc.Items[0].Value)
	assert.Equal(t, 2, alloc.Items[0].Count)
	assert.Equal(t, "AAPL", alloc.Items[1].Name)

	names := map[string]bool{}
	var sum float64
	for _, it := range alloc.Items {
		names[it.Name] = true
		sum += it.Weight
	}
	assert.True(t, names["Cash Account"])
	assert.True(t, names["Other"])
	assert.InDelta(t, 100, sum, 1e-9)
}

func TestPortfolioAllocation_ByCurrencyAndSector(t *testing.T) {
	positions := []models.Position{
		position(1, "IBM", 1, 100, "USD"),
		position(2, "SAP", 1, 300, "EUR"),
		position(3, "X", 1, 50, ""),
	}

	byCcy := PortfolioAllocation(positions, GroupByCurrency)
	require.Len(t, byCcy.Items, 3)
	assert.Equal(t, "EUR", byCcy.Items[0].Name)
	assert.Equal(t, "USD", byCcy.Items[1].Name)
	assert.Equal(t, "Unknown", byCcy.Items[2].Name)

	bySector := PortfolioAllocation(positions, GroupBySector)
	require.Len(t, bySector.Items, 1)
	assert.Equal(t, "Unknown", bySector.Items[0].Name)
	assert.InDelta(t, 100, bySector.Items[0].Weight, 1e-9)
	assert.Equal(t, 3, bySector.Items[0].Count)

	other := PortfolioAllocation(positions, GroupBy("industry"))
	require.Len(t, other.Items, 1)
	assert.Equal(t, "Other", other.Items[0].Name)
}

func TestPortfolioAllocation_AllZero(t *testing.T) {
	alloc := PortfolioAllocation([]models.Position{position(1, "A", 1, 0, "USD")}, GroupBySymbol)
	assert.Empty(t, alloc.Items)
	assert.Zero(t, alloc.TotalValue)
}

func TestDailyPnL(t *testing.T) {
	today := []models.Position{position(1, "A", 1, 150, "USD"), position(2, "B", 1, 50, "USD")}
	yesterday := []models.Position{position(1, "A", 1, 120, "USD"), {InstrumentEntityID: 3}}

	assert.InDelta(t, 80, DailyPnL(today, yesterday), 1e-9)
	assert.InDelta(t, -200, DailyPnL(nil, today), 1e-9)
	assert.Zero(t, DailyPnL(nil, nil))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{-1234.5, "USD", "-$1,234.50"},
		{1234.5, "JPY", "¥1,234.50"},
		{5, "XYZ", "XYZ 5.00"},
		{1234567.891, "EUR", "€1,234,567.89"},
		{0.05, "GBP", "£0.05"},
		{0, "", "$0.00"},
		{999.999, "usd", "$1,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.currency))
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "+3.46%", FormatPercentage(3.456))
	assert.Equal(t, "-2.10%", FormatPercentage(-2.1))
	assert.Equal(t, "+0.00%", FormatPercentage(0))
	assert.Equal(t, "+100.00%", FormatPercentage(100))
}
