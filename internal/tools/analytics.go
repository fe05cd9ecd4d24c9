package tools

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/calc"
	"github.com/fullbor/finance-mcp/internal/models"
)

const topN = 5

// GainView is an unrealized gain with display strings attached.
type GainView struct {
	calc.PositionGain
	MarketValueDisplay    string `json:"market_value_display"`
	UnrealizedGainDisplay string `json:"unrealized_gain_display"`
	UnrealizedGainPctText string `json:"unrealized_gain_pct_display"`
}

func toGainViews(gains []calc.PositionGain) []GainView {
	views := make([]GainView, 0, len(gains))
	for _, g := range gains {
		views = append(views, GainView{
			PositionGain:          g,
			MarketValueDisplay:    calc.FormatCurrency(g.MarketValue, g.Currency),
			UnrealizedGainDisplay: calc.FormatCurrency(g.UnrealizedGain, g.Currency),
			UnrealizedGainPctText: calc.FormatPercentage(g.UnrealizedGainPct),
		})
	}
	return views
}

// holdings fetches positions and the full active transaction history for a
// portfolio scope concurrently. portfolioID 0 means every portfolio.
func (s *Service) holdings(ctx context.Context, portfolioID int64, date string) ([]models.Position, []models.Transaction, error) {
	var (
		positions []models.Position
		txns      []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		positions, err = s.api.Positions(gctx, models.PositionQuery{
			PortfolioEntityID: portfolioID,
			PositionDate:      date,
			Descriptive:       models.Bool(true),
		})
		return err
	})
	g.Go(func() error {
		var err error
		txns, err = s.api.Transactions(gctx, models.TransactionQuery{
			PortfolioEntityID: portfolioID,
			ShowDeleted:       models.ShowActive,
			Descriptive:       models.Bool(true),
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return positions, txns, nil
}

// scope resolves an optional portfolio name. A miss widens to every
// portfolio and yields a note for the result message.
func (s *Service) scope(ctx context.Context, portfolioName string) (int64, string, error) {
	id, ok, err := s.resolvePortfolioID(ctx, portfolioName)
	if err != nil {
		return 0, "", err
	}
	if !ok {
		return 0, fmt.Sprintf("Portfolio %q not found; showing all portfolios", portfolioName), nil
	}
	return id, "", nil
}

// GetUnrealizedGainsInput filters get_unrealized_gains.
type GetUnrealizedGainsInput struct {
	Symbol        string `json:"symbol"`
	PortfolioName string `json:"portfolio_name"`
}

type GainsSummaryView struct {
	calc.GainsSummary
	TotalUnrealizedGainDisplay string `json:"total_unrealized_gain_display"`
	TotalUnrealizedGainPctText string `json:"total_unrealized_gain_pct_display"`
}

type GetUnrealizedGainsResult struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	Positions []GainView       `json:"positions"`
	Summary   GainsSummaryView `json:"summary"`
}

func (s *Service) GetUnrealizedGains(ctx context.Context, in GetUnrealizedGainsInput) (*GetUnrealizedGainsResult, error) {
	portfolioID, note, err := s.scope(ctx, in.PortfolioName)
	if err != nil {
		return nil, err
	}
	positions, txns, err := s.holdings(ctx, portfolioID, "")
	if err != nil {
		return nil, err
	}
	positions = filterPositions(positions, in.Symbol, false)

	gains := calc.UnrealizedGains(positions, txns)
	summary := calc.SummarizeGains(gains)
	s.log(ctx).Debug().Int("positions", len(positions)).Int("gains", len(gains)).Msg("unrealized gains computed")

	return &GetUnrealizedGainsResult{
		Success:   true,
		Message:   note,
		Positions: toGainViews(gains),
		Summary:   summarizeGainsView(summary, gains),
	}, nil
}

func summarizeGainsView(summary calc.GainsSummary, gains []calc.PositionGain) GainsSummaryView {
	currency := ""
	if len(gains) > 0 {
		currency = gains[0].Currency
	}
	return GainsSummaryView{
		GainsSummary:               summary,
		TotalUnrealizedGainDisplay: calc.FormatCurrency(summary.TotalUnrealizedGain, currency),
		TotalUnrealizedGainPctText: calc.FormatPercentage(summary.TotalUnrealizedGainPct),
	}
}

// GetPortfolioAllocationInput filters get_portfolio_allocation.
type GetPortfolioAllocationInput struct {
	PortfolioName string `json:"portfolio_name"`
	GroupBy       string `json:"group_by" validate:"oneof=symbol sector currency"`
}

// AllocationView is one allocation bucket with display strings.
type AllocationView struct {
	calc.AllocationItem
	ValueDisplay  string `json:"value_display"`
	WeightDisplay string `json:"weight_display"`
}

type AllocationSummary struct {
	TotalValue        float64 `json:"total_value"`
	TotalValueDisplay string  `json:"total_value_display"`
	PositionCount     int     `json:"position_count"`
	GroupCount        int     `json:"group_count"`
}

type GetPortfolioAllocationResult struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	GroupBy    string            `json:"group_by"`
	Allocation []AllocationView  `json:"allocation"`
	Summary    AllocationSummary `json:"summary"`
}

func (s *Service) GetPortfolioAllocation(ctx context.Context, in GetPortfolioAllocationInput) (*GetPortfolioAllocationResult, error) {
	portfolioID, note, err := s.scope(ctx, in.PortfolioName)
	if err != nil {
		return nil, err
	}
	positions, err := s.api.Positions(ctx, models.PositionQuery{
		PortfolioEntityID: portfolioID,
		Descriptive:       models.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	alloc := calc.PortfolioAllocation(positions, calc.GroupBy(in.GroupBy))
	return &GetPortfolioAllocationResult{
		Success:    true,
		Message:    note,
		GroupBy:    in.GroupBy,
		Allocation: toAllocationViews(alloc.Items, currencyOf(positions)),
		Summary:    summarizeAllocation(alloc, positions),
	}, nil
}

func toAllocationViews(items []calc.AllocationItem, currency string) []AllocationView {
	views := make([]AllocationView, 0, len(items))
	for _, it := range items {
		views = append(views, AllocationView{
			AllocationItem: it,
			ValueDisplay:   calc.FormatCurrency(it.Value, currency),
			WeightDisplay:  fmt.Sprintf("%.2f%%", it.Weight),
		})
	}
	return views
}

// summarizeAllocation counts every fetched position, including those
// with no market value that are left out of the groups.
func summarizeAllocation(alloc calc.Allocation, positions []models.Position) AllocationSummary {
	return AllocationSummary{
		TotalValue:        alloc.TotalValue,
		TotalValueDisplay: calc.FormatCurrency(alloc.TotalValue, currencyOf(positions)),
		PositionCount:     len(positions),
		GroupCount:        len(alloc.Items),
	}
}

// currencyOf returns the first settle currency seen, or "" for USD.
func currencyOf(positions []models.Position) string {
	for _, p := range positions {
		if p.SettleCurrency != "" {
			return p.SettleCurrency
		}
	}
	return ""
}

// GetPerformanceSummaryInput filters get_performance_summary.
type GetPerformanceSummaryInput struct {
	PortfolioName string `json:"portfolio_name"`
	Period        string `json:"period" validate:"oneof=day week month ytd all"`
}

// Activity aggregates trading over a period.
type Activity struct {
	TransactionCount int     `json:"transaction_count"`
	BuyCount         int     `json:"buy_count"`
	SellCount        int     `json:"sell_count"`
	TotalBought      float64 `json:"total_bought"`
	TotalSold        float64 `json:"total_sold"`
}

func summarizeActivity(txns []models.Transaction) Activity {
	a := Activity{TransactionCount: len(txns)}
	for _, t := range txns {
		switch {
		case t.IsBuy():
			a.BuyCount++
			a.TotalBought += t.AmountOrZero()
		case t.IsSell():
			a.SellCount++
			a.TotalSold += t.AmountOrZero()
		}
	}
	return a
}

type GetPerformanceSummaryResult struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message,omitempty"`
	Period         string            `json:"period"`
	DateRange      DateRange         `json:"date_range"`
	Gains          GainsSummaryView  `json:"gains"`
	Allocation     AllocationSummary `json:"allocation"`
	Activity       Activity          `json:"activity"`
	TopGains       []GainView        `json:"top_gains"`
	TopAllocations []AllocationView  `json:"top_allocations"`
}

// GetPerformanceSummary combines gains, allocation and period activity.
// The three upstream reads run concurrently; the first failure cancels the rest.
func (s *Service) GetPerformanceSummary(ctx context.Context, in GetPerformanceSummaryInput) (*GetPerformanceSummaryResult, error) {
	portfolioID, note, err := s.scope(ctx, in.PortfolioName)
	if err != nil {
		return nil, err
	}
	from, to := periodRange(s.today(), in.Period)

	var (
		positions []models.Position
		history   []models.Transaction
		period    []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		positions, history, err = s.holdings(gctx, portfolioID, "")
		return err
	})
	g.Go(func() error {
		var err error
		period, err = s.api.Transactions(gctx, models.TransactionQuery{
			PortfolioEntityID: portfolioID,
			TradeDateFrom:     from,
			TradeDateTo:       to,
			ShowDeleted:       models.ShowActive,
			Descriptive:       models.Bool(true),
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gains := calc.UnrealizedGains(positions, history)
	alloc := calc.PortfolioAllocation(positions, calc.GroupBySymbol)
	currency := currencyOf(positions)

	return &GetPerformanceSummaryResult{
		Success:        true,
		Message:        note,
		Period:         in.Period,
		DateRange:      DateRange{From: from, To: to},
		Gains:          summarizeGainsView(calc.SummarizeGains(gains), gains),
		Allocation:     summarizeAllocation(alloc, positions),
		Activity:       summarizeActivity(period),
		TopGains:       toGainViews(gains[:min(topN, len(gains))]),
		TopAllocations: toAllocationViews(alloc.Items[:min(topN, len(alloc.Items))], currency),
	}, nil
}

// GetDailyPnLInput selects the day to compare against the previous one.
type GetDailyPnLInput struct {
	PortfolioName string `json:"portfolio_name"`
	Date          string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type GetDailyPnLResult struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message,omitempty"`
	Date            string  `json:"date"`
	PreviousDate    string  `json:"previous_date"`
	TodayValue      float64 `json:"today_value"`
	PreviousValue   float64 `json:"previous_value"`
	DailyPnL        float64 `json:"daily_pnl"`
	DailyPnLDisplay string  `json:"daily_pnl_display"`
	DailyPnLPctText string  `json:"daily_pnl_pct_display"`
	PositionCount   int     `json:"position_count"`
}

// GetDailyPnL compares aggregate settle-date market value between date and
// the day before.
func (s *Service) GetDailyPnL(ctx context.Context, in GetDailyPnLInput) (*GetDailyPnLResult, error) {
	date := in.Date
	if date == "" {
		date = s.today().Format(dateLayout)
	}
	prev, err := previousDate(date)
	if err != nil {
		return nil, apperrors.Validation("date", "date must be a date in YYYY-MM-DD format")
	}
	portfolioID, note, err := s.scope(ctx, in.PortfolioName)
	if err != nil {
		return nil, err
	}

	var current, previous []models.Position
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.api.Positions(gctx, models.PositionQuery{PortfolioEntityID: portfolioID, PositionDate: date})
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.api.Positions(gctx, models.PositionQuery{PortfolioEntityID: portfolioID, PositionDate: prev})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	todayValue := calc.TotalMarketValue(current)
	prevValue := calc.TotalMarketValue(previous)
	pnl := calc.DailyPnL(current, previous)
	var pct float64
	if prevValue != 0 {
		pct = pnl / prevValue * 100
	}

	return &GetDailyPnLResult{
		Success:         true,
		Message:         note,
		Date:            date,
		PreviousDate:    prev,
		TodayValue:      todayValue,
		PreviousValue:   prevValue,
		DailyPnL:        pnl,
		DailyPnLDisplay: calc.FormatCurrency(pnl, currencyOf(current)),
		DailyPnLPctText: calc.FormatPercentage(pct),
		PositionCount:   len(current),
	}, nil
}
