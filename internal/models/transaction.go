package models

import "strings"

// Transaction is a single booked trade, income or cash event.
type Transaction struct {
	TransactionID         int64          `json:"transaction_id"`
	ClientID              int64          `json:"client_id"`
	PortfolioEntityID     int64          `json:"portfolio_entity_id"`
	ContraEntityID        int64          `json:"contra_entity_id,omitempty"`
	InstrumentEntityID    int64          `json:"instrument_entity_id,omitempty"`
	InstrumentDimensionID int64          `json:"instrument_dimension_id,omitempty"`
	CashEntityID          int64          `json:"cash_entity_id,omitempty"`
	TradeDate             string         `json:"trade_date"`
	SettleDate            string         `json:"settle_date"`
	TransactionStatusID   int64          `json:"transaction_status_id"`
	TransactionTypeID     int64          `json:"transaction_type_id"`
	Units                 *float64       `json:"units,omitempty"`
	Price                 *float64       `json:"price,omitempty"`
	Amount                *float64       `json:"amount,omitempty"`
	SettleCurrency        string         `json:"settle_currency,omitempty"`
	Properties            map[string]any `json:"properties,omitempty"`
	Deleted               bool           `json:"deleted,omitempty"`
	UpdateDate            string         `json:"update_date,omitempty"`

	PortfolioName         string `json:"portfolio_name,omitempty"`
	InstrumentName        string `json:"instrument_name,omitempty"`
	ContraName            string `json:"contra_name,omitempty"`
	TransactionTypeName   string `json:"transaction_type_name,omitempty"`
	TransactionStatusName string `json:"transaction_status_name,omitempty"`
}

// IsBuy reports whether the type name contains "buy", ignoring case.
// Unclassified transactions are never buys.
func (t Transaction) IsBuy() bool {
	return strings.Contains(strings.ToLower(t.TransactionTypeName), "buy")
}

// IsSell reports whether the type name contains "sell", ignoring case.
func (t Transaction) IsSell() bool {
	return strings.Contains(strings.ToLower(t.TransactionTypeName), "sell")
}

// UnitsOrZero returns units, treating a missing value as 0.
func (t Transaction) UnitsOrZero() float64 {
	if t.Units == nil {
		return 0
	}
	return *t.Units
}

// AmountOrZero returns amount, treating a missing value as 0.
func (t Transaction) AmountOrZero() float64 {
	if t.Amount == nil {
		return 0
	}
	return *t.Amount
}
