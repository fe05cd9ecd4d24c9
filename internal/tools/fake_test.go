package tools

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/client"
	"github.com/fullbor/finance-mcp/internal/models"
)

// fakeAPI serves fixtures and records the queries it receives.
type fakeAPI struct {
	mu sync.Mutex

	positions       []models.Position
	positionsByDate map[string][]models.Position
	transactions    []models.Transaction
	entities        []models.Entity
	err             error

	positionQueries    []models.PositionQuery
	transactionQueries []models.TransactionQuery
	entityQueries      []models.EntityQuery
}

func (f *fakeAPI) Positions(_ context.Context, q models.PositionQuery) ([]models.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positionQueries = append(f.positionQueries, q)
	if f.err != nil {
		return nil, f.err
	}
	source := f.positions
	if f.positionsByDate != nil && q.PositionDate != "" {
		source = f.positionsByDate[q.PositionDate]
	}
	var out []models.Position
	for _, p := range source {
		if q.PortfolioEntityID != 0 && p.PortfolioEntityID != q.PortfolioEntityID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeAPI) Transactions(_ context.Context, q models.TransactionQuery) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactionQueries = append(f.transactionQueries, q)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, t := range f.transactions {
		switch {
		case q.PortfolioEntityID != 0 && t.PortfolioEntityID != q.PortfolioEntityID:
		case q.InstrumentEntityID != 0 && t.InstrumentEntityID != q.InstrumentEntityID:
		case q.TradeDateFrom != "" && t.TradeDate < q.TradeDateFrom:
		case q.TradeDateTo != "" && t.TradeDate > q.TradeDateTo:
		default:
			if q.Descriptive == nil || !*q.Descriptive {
				t.TransactionTypeName = ""
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeAPI) Entities(_ context.Context, q models.EntityQuery) ([]models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entityQueries = append(f.entityQueries, q)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Entity
	for _, e := range f.entities {
		if q.Category != "" && e.EntityCategory != string(q.Category) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeAPI) PositionByID(_ context.Context, id int64) client.Lookup[models.Position] {
	if f.err != nil {
		return client.Lookup[models.Position]{Status: client.Failed, Err: f.err}
	}
	for _, p := range f.positions {
		if p.PositionID == id {
			return client.Lookup[models.Position]{Status: client.Found, Value: p}
		}
	}
	return client.Lookup[models.Position]{Status: client.NotFound}
}

func (f *fakeAPI) TransactionByID(_ context.Context, id int64) client.Lookup[models.Transaction] {
	if f.err != nil {
		return client.Lookup[models.Transaction]{Status: client.Failed, Err: f.err}
	}
	for _, t := range f.transactions {
		if t.TransactionID == id {
			return client.Lookup[models.Transaction]{Status: client.Found, Value: t}
		}
	}
	return client.Lookup[models.Transaction]{Status: client.NotFound}
}

func (f *fakeAPI) lastTransactionQuery() models.TransactionQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transactionQueries[len(f.transactionQueries)-1]
}

var fixedNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func newTestService(api *fakeAPI) *Service {
	s := NewService(api, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func entity(id int64, name string, category models.EntityCategory) models.Entity {
	return models.Entity{EntityID: id, EntityName: name, EntityCategory: string(category)}
}

func holding(id, portfolio, instrument int64, name string, units, mv float64) models.Position {
	return models.Position{
		PositionID:         id,
		PositionDate:       "2024-03-15",
		PortfolioEntityID:  portfolio,
		PortfolioName:      "Growth",
		InstrumentEntityID: instrument,
		InstrumentName:     name,
		SettleCurrency:     "USD",
		SettleDateUnits:    models.Float(units),
		SettleDateMV:       models.Float(mv),
	}
}

func trade(id, portfolio, instrument int64, kind, date string, units, amount float64) models.Transaction {
	return models.Transaction{
		TransactionID:       id,
		PortfolioEntityID:   portfolio,
		InstrumentEntityID:  instrument,
		TradeDate:           date,
		TransactionTypeName: kind,
		Units:               models.Float(units),
		Amount:              models.Float(amount),
		SettleCurrency:      "USD",
	}
}

// ibmBook is one portfolio holding IBM bought at 100 and now worth 150.
func ibmBook() *fakeAPI {
	return &fakeAPI{
		entities: []models.Entity{
			entity(10, "Growth Portfolio", models.CategoryPortfolio),
			entity(11, "Income Portfolio", models.CategoryPortfolio),
			entity(1, "IBM", models.CategoryInstrument),
			entity(2, "AAPL", models.CategoryInstrument),
			entity(3, "MSFT", models.CategoryInstrument),
		},
		positions: []models.Position{
			holding(100, 10, 1, "IBM", 10, 1500),
			holding(101, 10, 2, "AAPL", 5, 900),
		},
		transactions: []models.Transaction{
			trade(500, 10, 1, "Buy", "2024-01-10", 10, 1000),
			trade(501, 10, 2, "Buy", "2024-03-12", 5, 1000),
			trade(502, 10, 2, "Dividend", "2024-03-13", 0, 4),
			trade(503, 11, 1, "Sell", "2024-03-14", 2, 290),
		},
	}
}

var errUpstream = apperrors.Connection("/positions", errors.New("connection refused"))
