package models

// EntityCategory classifies directory entities.
type EntityCategory string

const (
	CategoryPortfolio  EntityCategory = "Portfolio"
	CategoryAccount    EntityCategory = "Account"
	CategoryInstrument EntityCategory = "Instrument"
	CategoryCurrency   EntityCategory = "Currency"
	CategoryPerson     EntityCategory = "Person"
)

// DeletedFilter selects live, deleted or all records.
type DeletedFilter string

const (
	ShowActive  DeletedFilter = "Active"
	ShowDeleted DeletedFilter = "Deleted"
	ShowAll     DeletedFilter = "All"
)

// Entity is a named directory record used for name to id resolution.
type Entity struct {
	EntityID       int64          `json:"entity_id"`
	EntityName     string         `json:"entity_name"`
	EntityTypeID   int64          `json:"entity_type_id"`
	EntityCategory string         `json:"entity_category,omitempty"`
	ClientID       int64          `json:"client_id"`
	Properties     map[string]any `json:"properties,omitempty"`
	Deleted        bool           `json:"deleted,omitempty"`
	UpdateDate     string         `json:"update_date,omitempty"`
}
