// Package calc holds the pure portfolio calculations: cost-basis matching,
// unrealized gains, allocation grouping, daily P&L and display formatting.
// Nothing here performs I/O, fails, or mutates its inputs.
package calc

import (
	"fmt"
	"math"
	"sort"

	"github.com/fullbor/finance-mcp/internal/models"
)

// PositionGain is the mark-to-market result for one held position.
type PositionGain struct {
	InstrumentEntityID int64   `json:"-"`
	Symbol             string  `json:"symbol"`
	Quantity           float64 `json:"quantity"`
	AvgCost            float64 `json:"avg_cost"`
	CurrentPrice       float64 `json:"current_price"`
	CostBasis          float64 `json:"cost_basis"`
	MarketValue        float64 `json:"market_value"`
	UnrealizedGain     float64 `json:"unrealized_gain"`
	UnrealizedGainPct  float64 `json:"unrealized_gain_pct"`
	Currency           string  `json:"currency"`
}

// costBasis accumulates bought units and cost for one instrument.
type costBasis struct {
	units float64
	cost  float64
}

func (c costBasis) avgCost() float64 {
	if c.units > 0 {
		return c.cost / c.units
	}
	return 0
}

// buildCostBasis folds buy transactions into per-instrument totals.
// Transactions without an instrument or whose type is not a buy are ignored.
func buildCostBasis(transactions []models.Transaction) map[int64]costBasis {
	acc := make(map[int64]costBasis)
	for _, t := range transactions {
		if t.InstrumentEntityID == 0 || !t.IsBuy() {
			continue
		}
		c := acc[t.InstrumentEntityID]
		c.cost += t.AmountOrZero()
		c.units += t.UnitsOrZero()
		acc[t.InstrumentEntityID] = c
	}
	return acc
}

// UnrealizedGains computes average-cost unrealized gains for each position
// that has an instrument, settled values and non-zero units. Results are
// ordered by absolute gain, largest first.
func UnrealizedGains(positions []models.Position, transactions []models.Transaction) []PositionGain {
	basis := buildCostBasis(transactions)

	gains := make([]PositionGain, 0, len(positions))
	for _, p := range positions {
		if !p.HasInstrument() || !p.Settled() {
			continue
		}
		qty := p.Units()
		if qty == 0 {
			continue
		}
		mv := p.MarketValue()

		avg := basis[p.InstrumentEntityID].avgCost()
		cost := avg * qty
		gain := mv - cost
		var pct float64
		if cost != 0 {
			pct = gain / cost * 100
		}

		gains = append(gains, PositionGain{
			InstrumentEntityID: p.InstrumentEntityID,
			Symbol:             gainSymbol(p),
			Quantity:           qty,
			AvgCost:            avg,
			CurrentPrice:       mv / qty,
			CostBasis:          cost,
			MarketValue:        mv,
			UnrealizedGain:     gain,
			UnrealizedGainPct:  pct,
			Currency:           p.SettleCurrency,
		})
	}

	sort.SliceStable(gains, func(i, j int) bool {
		return math.Abs(gains[i].UnrealizedGain) > math.Abs(gains[j].UnrealizedGain)
	})
	return gains
}

func gainSymbol(p models.Position) string {
	if p.InstrumentName != "" {
		return p.InstrumentName
	}
	return fmt.Sprintf("Instrument %d", p.InstrumentEntityID)
}

// GainsSummary aggregates a set of gains. Percentage is total gain over
// total cost basis, or 0 when the basis is not positive.
type GainsSummary struct {
	TotalUnrealizedGain    float64 `json:"total_unrealized_gain"`
	TotalUnrealizedGainPct float64 `json:"total_unrealized_gain_pct"`
	TotalCostBasis         float64 `json:"total_cost_basis"`
	PositionCount          int     `json:"position_count"`
}

// SummarizeGains totals the given gains.
func SummarizeGains(gains []PositionGain) GainsSummary {
	var s GainsSummary
	for _, g := range gains {
		s.TotalUnrealizedGain += g.UnrealizedGain
		s.TotalCostBasis += g.CostBasis
	}
	if s.TotalCostBasis > 0 {
		s.TotalUnrealizedGainPct = s.TotalUnrealizedGain / s.TotalCostBasis * 100
	}
	s.PositionCount = len(gains)
	return s
}
