package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fullbor/finance-mcp/internal/models"
)

const dateLayout = "2006-01-02"

// earliestDate bounds the "all" period.
var earliestDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// resolveEntity finds the first entity of category whose name contains term,
// ignoring case. The term doubles as the upstream search hint. A miss
// returns nil, nil; only fetch failures are errors.
func (s *Service) resolveEntity(ctx context.Context, category models.EntityCategory, term string) (*models.Entity, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	entities, err := s.api.Entities(ctx, models.EntityQuery{Category: category, Search: term})
	if err != nil {
		return nil, fmt.Errorf("resolve %s %q: %w", strings.ToLower(string(category)), term, err)
	}
	needle := strings.ToLower(term)
	for i := range entities {
		if strings.Contains(strings.ToLower(entities[i].EntityName), needle) {
			return &entities[i], nil
		}
	}
	s.log(ctx).Debug().Str("category", string(category)).Str("term", term).Int("candidates", len(entities)).Msg("no directory match")
	return nil, nil
}

// resolvePortfolioID resolves a portfolio name to its entity id. An empty
// name or a miss yields 0, meaning no portfolio filter.
func (s *Service) resolvePortfolioID(ctx context.Context, name string) (int64, bool, error) {
	if name == "" {
		return 0, true, nil
	}
	p, err := s.resolveEntity(ctx, models.CategoryPortfolio, name)
	if err != nil {
		return 0, false, err
	}
	if p == nil {
		return 0, false, nil
	}
	return p.EntityID, true, nil
}

// recentRange returns [today-days, today] as dates.
func recentRange(now time.Time, days int) (string, string) {
	today := now.UTC()
	return today.AddDate(0, 0, -days).Format(dateLayout), today.Format(dateLayout)
}

// periodRange maps a reporting period onto a date range ending today.
// Unknown periods mean all time.
func periodRange(now time.Time, period string) (string, string) {
	today := now.UTC()
	var from time.Time
	switch period {
	case "day":
		from = today
	case "week":
		from = today.AddDate(0, 0, -7)
	case "month":
		from = today.AddDate(0, -1, 0)
	case "ytd":
		from = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		from = earliestDate
	}
	return from.Format(dateLayout), today.Format(dateLayout)
}

// previousDate returns the day before date.
func previousDate(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(dateLayout), nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

// matchesSymbol reports whether the position's instrument name, or when
// withAccount is set its instrument account name, contains symbol.
func matchesSymbol(p models.Position, symbol string, withAccount bool) bool {
	if containsFold(p.InstrumentName, symbol) {
		return true
	}
	return withAccount && containsFold(p.InstrumentAccountName, symbol)
}

func filterPositions(positions []models.Position, symbol string, withAccount bool) []models.Position {
	if symbol == "" {
		return positions
	}
	out := make([]models.Position, 0, len(positions))
	for _, p := range positions {
		if matchesSymbol(p, symbol, withAccount) {
			out = append(out, p)
		}
	}
	return out
}
