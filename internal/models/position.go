// Package models defines the records returned by the FullBor finance API
// and the typed query filters sent to it.
package models

// Position is a holding snapshot for one instrument in one portfolio on a date.
type Position struct {
	PositionID            int64    `json:"position_id"`
	ClientID              int64    `json:"client_id"`
	PositionDate          string   `json:"position_date"`
	PortfolioEntityID     int64    `json:"portfolio_entity_id"`
	AccountEntityID       int64    `json:"account_entity_id,omitempty"`
	InstrumentEntityID    int64    `json:"instrument_entity_id,omitempty"`
	InstrumentDimensionID int64    `json:"instrument_dimension_id,omitempty"`
	SettleCurrency        string   `json:"settle_currency"`
	TradeDateUnits        float64  `json:"trade_date_units"`
	TradeDateMV           float64  `json:"trade_date_mv"`
	SettleDateUnits       *float64 `json:"settle_date_units,omitempty"`
	SettleDateMV          *float64 `json:"settle_date_mv,omitempty"`
	UpdateDate            string   `json:"update_date,omitempty"`
	PortfolioName         string   `json:"portfolio_name,omitempty"`
	AccountName           string   `json:"account_name,omitempty"`
	InstrumentName        string   `json:"instrument_name,omitempty"`
	InstrumentAccountName string   `json:"instrument_account_name,omitempty"`
}

// Settled reports whether both settle-date units and market value are present.
func (p Position) Settled() bool {
	return p.SettleDateUnits != nil && p.SettleDateMV != nil
}

// Units returns settle-date units, or 0 when absent.
func (p Position) Units() float64 {
	if p.SettleDateUnits == nil {
		return 0
	}
	return *p.SettleDateUnits
}

// MarketValue returns settle-date market value, or 0 when absent.
func (p Position) MarketValue() float64 {
	if p.SettleDateMV == nil {
		return 0
	}
	return *p.SettleDateMV
}

// HasInstrument reports whether the position is linked to an instrument entity.
func (p Position) HasInstrument() bool {
	return p.InstrumentEntityID != 0
}

// ListResponse is the upstream list envelope.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// Float returns a pointer to v. Handy for building fixtures.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
