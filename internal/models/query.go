package models

import (
	"net/url"
	"strconv"
)

// PositionQuery filters GET /positions.
type PositionQuery struct {
	ClientID             int64
	PositionDate         string
	PortfolioEntityID    int64
	PortfolioOrAccountID int64
	Descriptive          *bool
	Returns              *bool
}

// Values renders only the set fields as query parameters.
func (q PositionQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, "client_id", q.ClientID)
	setString(v, "position_date", q.PositionDate)
	setInt(v, "portfolio_entity_id", q.PortfolioEntityID)
	setInt(v, "portfolio_or_account_id", q.PortfolioOrAccountID)
	setBool(v, "descriptive", q.Descriptive)
	setBool(v, "returns", q.Returns)
	return v
}

// TransactionQuery filters GET /transactions.
type TransactionQuery struct {
	ClientID            int64
	PortfolioEntityID   int64
	InstrumentEntityID  int64
	TradeDateFrom       string
	TradeDateTo         string
	TransactionTypeID   int64
	TransactionStatusID int64
	ShowDeleted         DeletedFilter
	Descriptive         *bool
}

func (q TransactionQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, "client_id", q.ClientID)
	setInt(v, "portfolio_entity_id", q.PortfolioEntityID)
	setInt(v, "instrument_entity_id", q.InstrumentEntityID)
	setString(v, "trade_date_from", q.TradeDateFrom)
	setString(v, "trade_date_to", q.TradeDateTo)
	setInt(v, "transaction_type_id", q.TransactionTypeID)
	setInt(v, "transaction_status_id", q.TransactionStatusID)
	setString(v, "show_deleted", string(q.ShowDeleted))
	setBool(v, "descriptive", q.Descriptive)
	return v
}

// EntityQuery filters GET /entities.
type EntityQuery struct {
	ClientID    int64
	Category    EntityCategory
	Search      string
	NamesOnly   bool
	ShowDeleted DeletedFilter
}

func (q EntityQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, "client_id", q.ClientID)
	setString(v, "entity_category", string(q.Category))
	setString(v, "search", q.Search)
	if q.NamesOnly {
		v.Set("names_only", "true")
	}
	setString(v, "show_deleted", string(q.ShowDeleted))
	return v
}

func setInt(v url.Values, key string, n int64) {
	if n != 0 {
		v.Set(key, strconv.FormatInt(n, 10))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func setBool(v url.Values, key string, b *bool) {
	if b != nil {
		v.Set(key, strconv.FormatBool(*b))
	}
}
