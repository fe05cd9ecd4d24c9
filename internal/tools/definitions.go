package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// All returns every finance tool bound to s, in listing order.
func All(s *Service) []Definition {
	return []Definition{
		Define(positionsTool(),
			func() GetPositionsInput { return GetPositionsInput{IncludeDetails: true} },
			adapt(s.GetPositions)),
		Define(positionBySymbolTool(),
			func() GetPositionBySymbolInput { return GetPositionBySymbolInput{} },
			adapt(s.GetPositionBySymbol)),
		Define(positionByIDTool(),
			func() GetPositionByIDInput { return GetPositionByIDInput{} },
			adapt(s.GetPositionByID)),
		Define(transactionsTool(),
			func() GetTransactionsInput { return GetTransactionsInput{Limit: defaultTransactionLimit} },
			adapt(s.GetTransactions)),
		Define(recentTradesTool(),
			func() GetRecentTradesInput { return GetRecentTradesInput{Days: 7} },
			adapt(s.GetRecentTrades)),
		Define(transactionByIDTool(),
			func() GetTransactionByIDInput { return GetTransactionByIDInput{} },
			adapt(s.GetTransactionByID)),
		Define(unrealizedGainsTool(),
			func() GetUnrealizedGainsInput { return GetUnrealizedGainsInput{} },
			adapt(s.GetUnrealizedGains)),
		Define(allocationTool(),
			func() GetPortfolioAllocationInput { return GetPortfolioAllocationInput{GroupBy: "symbol"} },
			adapt(s.GetPortfolioAllocation)),
		Define(performanceTool(),
			func() GetPerformanceSummaryInput { return GetPerformanceSummaryInput{Period: "all"} },
			adapt(s.GetPerformanceSummary)),
		Define(dailyPnLTool(),
			func() GetDailyPnLInput { return GetDailyPnLInput{} },
			adapt(s.GetDailyPnL)),
		Define(listPortfoliosTool(),
			func() ListPortfoliosInput { return ListPortfoliosInput{} },
			adapt(s.ListPortfolios)),
		Define(searchEntitiesTool(),
			func() SearchEntitiesInput { return SearchEntitiesInput{Limit: defaultSearchLimit} },
			adapt(s.SearchEntities)),
	}
}

// adapt erases a handler's concrete result type.
func adapt[In, Out any](fn func(context.Context, In) (*Out, error)) func(context.Context, In) (any, error) {
	return func(ctx context.Context, in In) (any, error) {
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func readOnly(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)
	return mcp.NewTool(name, opts...)
}

func portfolioParam() mcp.ToolOption {
	return mcp.WithString("portfolio_name",
		mcp.Description("Portfolio name or part of it. Omit for all portfolios."),
	)
}

func positionsTool() mcp.Tool {
	return readOnly("get_positions",
		mcp.WithDescription(`Fetch current positions from the portfolio.
Returns all positions or filter by symbol, portfolio, or date.
Use this when the user asks:
- "What positions do I have?"
- "Show me my portfolio"
- "What stocks do I own?"
- "List my holdings"`),
		mcp.WithString("symbol", mcp.Description("Filter by instrument symbol or name (partial match)")),
		portfolioParam(),
		mcp.WithString("position_date",
			mcp.Description("Position date in YYYY-MM-DD format. Defaults to the latest available."),
			mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`),
		),
		mcp.WithBoolean("include_details",
			mcp.Description("Include descriptive names for portfolios and instruments"),
			mcp.DefaultBool(true),
		),
	)
}

func positionBySymbolTool() mcp.Tool {
	return readOnly("get_position_by_symbol",
		mcp.WithDescription(`Get detailed position information for a specific stock symbol.
Use this when the user asks about a specific stock like:
- "How many shares of IBM do I have?"
- "What's my AAPL position?"
- "Show me my Microsoft holdings"`),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Instrument symbol or name, e.g. IBM")),
		portfolioParam(),
	)
}

func positionByIDTool() mcp.Tool {
	return readOnly("get_position_by_id",
		mcp.WithDescription("Fetch a single position by its numeric id."),
		mcp.WithNumber("position_id", mcp.Required(), mcp.Description("Position id"), mcp.Min(1)),
	)
}

func transactionsTool() mcp.Tool {
	return readOnly("get_transactions",
		mcp.WithDescription(`Fetch transaction history with optional filters.
Use this when the user asks:
- "Show my recent trades"
- "What transactions did I make for IBM?"
- "List my buys and sells this month"
- "What did I trade last week?"`),
		mcp.WithString("symbol", mcp.Description("Filter by instrument symbol or name")),
		portfolioParam(),
		mcp.WithString("date_from", mcp.Description("Start trade date, YYYY-MM-DD"), mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`)),
		mcp.WithString("date_to", mcp.Description("End trade date, YYYY-MM-DD"), mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`)),
		mcp.WithString("transaction_type", mcp.Description("Filter by transaction type, e.g. Buy, Sell, Dividend")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of transactions to return"),
			mcp.DefaultNumber(defaultTransactionLimit), mcp.Min(1), mcp.Max(1000),
		),
	)
}

func recentTradesTool() mcp.Tool {
	return readOnly("get_recent_trades",
		mcp.WithDescription(`Get recent trading activity within a specified number of days.
Use this for quick lookups like:
- "What did I trade recently?"
- "Show me this week's activity"
- "Any trades in the last 3 days?"`),
		mcp.WithNumber("days",
			mcp.Description("Number of days to look back"),
			mcp.DefaultNumber(7), mcp.Min(0), mcp.Max(3650),
		),
		mcp.WithString("symbol", mcp.Description("Filter by instrument symbol or name")),
	)
}

func transactionByIDTool() mcp.Tool {
	return readOnly("get_transaction_by_id",
		mcp.WithDescription("Fetch a single transaction by its numeric id, with descriptive names."),
		mcp.WithNumber("transaction_id", mcp.Required(), mcp.Description("Transaction id"), mcp.Min(1)),
	)
}

func unrealizedGainsTool() mcp.Tool {
	return readOnly("get_unrealized_gains",
		mcp.WithDescription(`Calculate unrealized gains/losses for positions.
Returns P&L in both dollar amounts and percentages.
Use this when the user asks:
- "What are my unrealized gains?"
- "How much am I up/down on IBM?"
- "What's my P&L?"
- "Am I making money on my stocks?"`),
		mcp.WithString("symbol", mcp.Description("Limit to one instrument symbol or name")),
		portfolioParam(),
	)
}

func allocationTool() mcp.Tool {
	return readOnly("get_portfolio_allocation",
		mcp.WithDescription(`Get portfolio allocation breakdown.
Shows how the portfolio is distributed across holdings.
Use this when the user asks:
- "What's my portfolio breakdown?"
- "How is my portfolio allocated?"
- "What percentage is in tech stocks?"`),
		portfolioParam(),
		mcp.WithString("group_by",
			mcp.Description("How to group holdings (sector data is not provided by the API, so sector groups everything as Unknown)"),
			mcp.Enum("symbol", "sector", "currency"),
			mcp.DefaultString("symbol"),
		),
	)
}

func performanceTool() mcp.Tool {
	return readOnly("get_performance_summary",
		mcp.WithDescription(`Get comprehensive portfolio performance summary.
Combines P&L, allocation, and activity metrics.
Use this for overview questions like:
- "How is my portfolio doing?"
- "Give me a summary of my investments"
- "What's my portfolio performance?"`),
		portfolioParam(),
		mcp.WithString("period",
			mcp.Description("Activity period"),
			mcp.Enum("day", "week", "month", "ytd", "all"),
			mcp.DefaultString("all"),
		),
	)
}

func dailyPnLTool() mcp.Tool {
	return readOnly("get_daily_pnl",
		mcp.WithDescription(`Compare total market value against the previous day.
Use this when the user asks:
- "How did my portfolio do today?"
- "What's my daily P&L?"`),
		portfolioParam(),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format. Defaults to today."), mcp.Pattern(`^\d{4}-\d{2}-\d{2}$`)),
	)
}

func listPortfoliosTool() mcp.Tool {
	return readOnly("list_portfolios",
		mcp.WithDescription("List the portfolios available to the user. Use this to find valid portfolio names."),
	)
}

func searchEntitiesTool() mcp.Tool {
	return readOnly("search_entities",
		mcp.WithDescription("Search the entity directory (portfolios, accounts, instruments, currencies, people) by name."),
		mcp.WithString("search", mcp.Required(), mcp.Description("Name or part of a name")),
		mcp.WithString("category",
			mcp.Description("Restrict to one entity category"),
			mcp.Enum("Portfolio", "Account", "Instrument", "Currency", "Person"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
			mcp.DefaultNumber(defaultSearchLimit), mcp.Min(1), mcp.Max(1000),
		),
	)
}
