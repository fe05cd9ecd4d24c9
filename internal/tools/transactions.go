package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/client"
	"github.com/fullbor/finance-mcp/internal/models"
)

const defaultTransactionLimit = 50

// TransactionView is the tool-facing shape of a transaction.
type TransactionView struct {
	TransactionID int64    `json:"transaction_id"`
	Date          string   `json:"date"`
	Type          string   `json:"type"`
	Symbol        string   `json:"symbol"`
	Portfolio     string   `json:"portfolio"`
	Units         *float64 `json:"units"`
	Price         *float64 `json:"price"`
	Amount        *float64 `json:"amount"`
	Currency      string   `json:"currency"`
	Status        string   `json:"status"`
}

func toTransactionView(t models.Transaction) TransactionView {
	return TransactionView{
		TransactionID: t.TransactionID,
		Date:          t.TradeDate,
		Type:          orDefault(t.TransactionTypeName, fmt.Sprintf("Type %d", t.TransactionTypeID)),
		Symbol:        orDefault(t.InstrumentName, "N/A"),
		Portfolio:     orDefault(t.PortfolioName, fmt.Sprintf("Portfolio %d", t.PortfolioEntityID)),
		Units:         t.Units,
		Price:         t.Price,
		Amount:        t.Amount,
		Currency:      t.SettleCurrency,
		Status:        orDefault(t.TransactionStatusName, "Unknown"),
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// GetTransactionsInput filters get_transactions.
type GetTransactionsInput struct {
	Symbol          string `json:"symbol"`
	PortfolioName   string `json:"portfolio_name"`
	DateFrom        string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo          string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	TransactionType string `json:"transaction_type"`
	Limit           int    `json:"limit" validate:"min=1,max=1000"`
}

type GetTransactionsResult struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	Count        int               `json:"count"`
	Transactions []TransactionView `json:"transactions"`
	DateRange    *DateRange        `json:"date_range,omitempty"`
}

// DateRange echoes the trade-date window a listing covered.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// GetTransactions lists active transactions. Portfolio and symbol names that
// do not resolve are dropped from the upstream filter and reported in message.
func (s *Service) GetTransactions(ctx context.Context, in GetTransactionsInput) (*GetTransactionsResult, error) {
	q := models.TransactionQuery{
		TradeDateFrom: in.DateFrom,
		TradeDateTo:   in.DateTo,
		ShowDeleted:   models.ShowActive,
		Descriptive:   models.Bool(true),
	}

	var notes []string
	portfolioID, ok, err := s.resolvePortfolioID(ctx, in.PortfolioName)
	if err != nil {
		return nil, err
	}
	if !ok {
		notes = append(notes, fmt.Sprintf("Portfolio %q not found; showing all portfolios", in.PortfolioName))
	}
	q.PortfolioEntityID = portfolioID

	if in.Symbol != "" {
		instrument, err := s.resolveEntity(ctx, models.CategoryInstrument, in.Symbol)
		if err != nil {
			return nil, err
		}
		if instrument != nil {
			q.InstrumentEntityID = instrument.EntityID
		} else {
			notes = append(notes, fmt.Sprintf("Instrument %q not found; showing all instruments", in.Symbol))
		}
	}

	txns, err := s.api.Transactions(ctx, q)
	if err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	views := make([]TransactionView, 0, min(len(txns), limit))
	for _, t := range txns {
		if in.TransactionType != "" && !containsFold(t.TransactionTypeName, in.TransactionType) {
			continue
		}
		views = append(views, toTransactionView(t))
		if len(views) == limit {
			break
		}
	}

	res := &GetTransactionsResult{
		Success:      true,
		Count:        len(views),
		Transactions: views,
	}
	if in.DateFrom != "" || in.DateTo != "" {
		res.DateRange = &DateRange{From: in.DateFrom, To: in.DateTo}
	}
	if len(notes) > 0 {
		res.Message = strings.Join(notes, ". ")
	}
	return res, nil
}

// GetRecentTradesInput selects a trailing window of days.
type GetRecentTradesInput struct {
	Days   int    `json:"days" validate:"min=0,max=3650"`
	Symbol string `json:"symbol"`
}

// GetRecentTrades lists transactions over [today-days, today].
func (s *Service) GetRecentTrades(ctx context.Context, in GetRecentTradesInput) (*GetTransactionsResult, error) {
	from, to := recentRange(s.today(), in.Days)
	return s.GetTransactions(ctx, GetTransactionsInput{
		Symbol:   in.Symbol,
		DateFrom: from,
		DateTo:   to,
		Limit:    defaultTransactionLimit,
	})
}

// GetTransactionByIDInput selects a transaction by id.
type GetTransactionByIDInput struct {
	TransactionID int64 `json:"transaction_id" validate:"required,min=1"`
}

type GetTransactionByIDResult struct {
	Success     bool            `json:"success"`
	Transaction TransactionView `json:"transaction"`
}

func (s *Service) GetTransactionByID(ctx context.Context, in GetTransactionByIDInput) (*GetTransactionByIDResult, error) {
	res := s.api.TransactionByID(ctx, in.TransactionID)
	switch res.Status {
	case client.Found:
		return &GetTransactionByIDResult{Success: true, Transaction: toTransactionView(res.Value)}, nil
	case client.NotFound:
		return nil, apperrors.NotFound("Transaction", strconv.FormatInt(in.TransactionID, 10))
	default:
		return nil, res.Err
	}
}
