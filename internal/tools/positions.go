package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/calc"
	"github.com/fullbor/finance-mcp/internal/client"
	"github.com/fullbor/finance-mcp/internal/models"
)

// PositionView is the tool-facing shape of a position.
type PositionView struct {
	PositionID   int64    `json:"position_id"`
	Symbol       string   `json:"symbol"`
	Portfolio    string   `json:"portfolio"`
	Quantity     *float64 `json:"quantity"`
	MarketValue  *float64 `json:"market_value"`
	Currency     string   `json:"currency"`
	PositionDate string   `json:"position_date"`
}

func toPositionView(p models.Position) PositionView {
	symbol := p.InstrumentName
	if symbol == "" {
		symbol = p.InstrumentAccountName
	}
	if symbol == "" {
		symbol = "Unknown"
	}
	portfolio := p.PortfolioName
	if portfolio == "" {
		portfolio = fmt.Sprintf("Portfolio %d", p.PortfolioEntityID)
	}
	return PositionView{
		PositionID:   p.PositionID,
		Symbol:       symbol,
		Portfolio:    portfolio,
		Quantity:     p.SettleDateUnits,
		MarketValue:  p.SettleDateMV,
		Currency:     p.SettleCurrency,
		PositionDate: p.PositionDate,
	}
}

// GetPositionsInput filters get_positions.
type GetPositionsInput struct {
	Symbol         string `json:"symbol"`
	PortfolioName  string `json:"portfolio_name"`
	PositionDate   string `json:"position_date" validate:"omitempty,datetime=2006-01-02"`
	IncludeDetails bool   `json:"include_details"`
}

type PositionsSummary struct {
	TotalMarketValue        float64 `json:"total_market_value"`
	TotalMarketValueDisplay string  `json:"total_market_value_display"`
	PositionCount           int     `json:"position_count"`
}

type GetPositionsResult struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Count     int               `json:"count"`
	Positions []PositionView    `json:"positions"`
	Summary   *PositionsSummary `json:"summary,omitempty"`
}

// GetPositions lists positions, optionally scoped to a portfolio and date
// and filtered by symbol. An unknown portfolio is a soft failure.
func (s *Service) GetPositions(ctx context.Context, in GetPositionsInput) (*GetPositionsResult, error) {
	q := models.PositionQuery{
		PositionDate: in.PositionDate,
		Descriptive:  models.Bool(in.IncludeDetails),
	}

	if in.PortfolioName != "" {
		id, ok, err := s.resolvePortfolioID(ctx, in.PortfolioName)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &GetPositionsResult{
				Success:   false,
				Message:   fmt.Sprintf("Portfolio %q not found", in.PortfolioName),
				Positions: []PositionView{},
			}, nil
		}
		q.PortfolioEntityID = id
	}

	positions, err := s.api.Positions(ctx, q)
	if err != nil {
		return nil, err
	}
	positions = filterPositions(positions, in.Symbol, true)

	views := make([]PositionView, 0, len(positions))
	var total float64
	currency := ""
	for _, p := range positions {
		views = append(views, toPositionView(p))
		total += p.MarketValue()
		if currency == "" {
			currency = p.SettleCurrency
		}
	}

	return &GetPositionsResult{
		Success:   true,
		Count:     len(views),
		Positions: views,
		Summary: &PositionsSummary{
			TotalMarketValue:        total,
			TotalMarketValueDisplay: calc.FormatCurrency(total, currency),
			PositionCount:           len(views),
		},
	}, nil
}

// GetPositionBySymbolInput selects one instrument.
type GetPositionBySymbolInput struct {
	Symbol        string `json:"symbol" validate:"required"`
	PortfolioName string `json:"portfolio_name"`
}

type GetPositionBySymbolResult struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message,omitempty"`
	Position *PositionView `json:"position"`
}

// GetPositionBySymbol distinguishes an unknown instrument (success false)
// from a known instrument that is not held (success true, null position).
func (s *Service) GetPositionBySymbol(ctx context.Context, in GetPositionBySymbolInput) (*GetPositionBySymbolResult, error) {
	instrument, err := s.resolveEntity(ctx, models.CategoryInstrument, in.Symbol)
	if err != nil {
		return nil, err
	}
	if instrument == nil {
		return &GetPositionBySymbolResult{
			Success: false,
			Message: fmt.Sprintf("Instrument %q not found in the system", in.Symbol),
		}, nil
	}

	q := models.PositionQuery{Descriptive: models.Bool(true)}
	if in.PortfolioName != "" {
		id, _, err := s.resolvePortfolioID(ctx, in.PortfolioName)
		if err != nil {
			return nil, err
		}
		q.PortfolioEntityID = id
	}

	positions, err := s.api.Positions(ctx, q)
	if err != nil {
		return nil, err
	}

	for _, p := range positions {
		if p.InstrumentEntityID == instrument.EntityID || matchesSymbol(p, in.Symbol, false) {
			view := toPositionView(p)
			return &GetPositionBySymbolResult{Success: true, Position: &view}, nil
		}
	}

	return &GetPositionBySymbolResult{
		Success: true,
		Message: fmt.Sprintf("No position found for %q", in.Symbol),
	}, nil
}

// GetPositionByIDInput selects a position by id.
type GetPositionByIDInput struct {
	PositionID int64 `json:"position_id" validate:"required,min=1"`
}

type GetPositionByIDResult struct {
	Success  bool         `json:"success"`
	Position PositionView `json:"position"`
}

// GetPositionByID fetches one position. A missing id is a NotFound failure.
func (s *Service) GetPositionByID(ctx context.Context, in GetPositionByIDInput) (*GetPositionByIDResult, error) {
	res := s.api.PositionByID(ctx, in.PositionID)
	switch res.Status {
	case client.Found:
		return &GetPositionByIDResult{Success: true, Position: toPositionView(res.Value)}, nil
	case client.NotFound:
		return nil, apperrors.NotFound("Position", strconv.FormatInt(in.PositionID, 10))
	default:
		return nil, res.Err
	}
}
