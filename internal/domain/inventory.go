package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedItem is one (product, quantity, unit) fact extracted from a statement.
// Unit is the normalized unit token as written, before conversion to a base unit.
type ParsedItem struct {
	ProductKey string           `json:"product"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	Unit       *string          `json:"unit,omitempty"`
}

// ParseResult is the outcome of parsing one statement
type ParseResult struct {
	Items        []ParsedItem `json:"items"`
	Unrecognized []string     `json:"unrecognized,omitempty"`
}

// InventoryRecord is the stored state of one product for one user.
// A nil Quantity means the product is present in an unknown amount.
type InventoryRecord struct {
	ProductID   int64            `json:"productId"`
	ProductKey  string           `json:"product"`
	DisplayName string           `json:"displayName"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	AddedAt     time.Time        `json:"addedAt"`
}

// Inventory is a snapshot of one user's records keyed by product key
type Inventory map[string]InventoryRecord

// InventoryUpsert is the write payload for one record
type InventoryUpsert struct {
	ProductID int64
	Quantity  *decimal.Decimal
	Unit      *string
}

// InventoryLine is a record with its human readable rendering, e.g. "Milk: 300 ml"
type InventoryLine struct {
	InventoryRecord
	Line string `json:"line"`
}

// QuantityScale is the number of fractional digits a stored quantity keeps
const QuantityScale = 4

// MaxQuantity is the exclusive upper bound of a stored quantity (numeric(14,4))
var MaxQuantity = decimal.New(1, 10)

// StorableQuantity rounds q to QuantityScale and reports whether the result is positive
// and below MaxQuantity
func StorableQuantity(q decimal.Decimal) (decimal.Decimal, bool) {
	rounded := q.Round(QuantityScale)
	return rounded, rounded.IsPositive() && rounded.LessThan(MaxQuantity)
}
