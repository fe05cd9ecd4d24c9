package calc

import (
	"sort"

	"github.com/fullbor/finance-mcp/internal/models"
)

// GroupBy selects the allocation dimension.
type GroupBy string

const (
	GroupBySymbol   GroupBy = "symbol"
	GroupBySector   GroupBy = "sector"
	GroupByCurrency GroupBy = "currency"
)

// AllocationItem is one bucket of an allocation breakdown.
type AllocationItem struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// Allocation is a breakdown ordered by bucket value, largest first.
type Allocation struct {
	Items      []AllocationItem `json:"items"`
	TotalValue float64          `json:"total_value"`
}

// PortfolioAllocation groups settled, non-zero positions by the requested
// dimension. An empty groupBy means symbol. Sector data is not carried on
// positions so sector grouping yields a single "Unknown" bucket.
func PortfolioAllocation(positions []models.Position, groupBy GroupBy) Allocation {
	if groupBy == "" {
		groupBy = GroupBySymbol
	}

	index := make(map[string]int)
	items := make([]AllocationItem, 0)
	var total float64

	for _, p := range positions {
		if !p.Settled() {
			continue
		}
		mv := p.MarketValue()
		if mv == 0 {
			continue
		}
		key := groupKey(p, groupBy)
		i, ok := index[key]
		if !ok {
			i = len(items)
			index[key] = i
			items = append(items, AllocationItem{Name: key})
		}
		items[i].Value += mv
		items[i].Count++
		total += mv
	}

	for i := range items {
		if total != 0 {
			items[i].Weight = items[i].Value / total * 100
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Value > items[j].Value
	})

	return Allocation{Items: items, TotalValue: total}
}

func groupKey(p models.Position, groupBy GroupBy) string {
	switch groupBy {
	case GroupBySymbol:
		switch {
		case p.InstrumentName != "":
			return p.InstrumentName
		case p.InstrumentAccountName != "":
			return p.InstrumentAccountName
		}
		return "Other"
	case GroupByCurrency:
		if p.SettleCurrency != "" {
			return p.SettleCurrency
		}
		return "Unknown"
	case GroupBySector:
		return "Unknown"
	default:
		return "Other"
	}
}
