package models

import "github.com/shopspring/decimal"

// LineItem is one priced, quantified entry on a billing list.
type LineItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the trimmed, non-empty product name.
	Name string `json:"name"`

	// Price is the non-negative unit price.
	Price decimal.Decimal `json:"price"`

	// Quantity is the non-negative unit count.
	Quantity int `json:"quantity"`

	// Total is price*quantity fixed to two decimals at insertion time.
	// It is persisted and read back verbatim, never recomputed.
	Total string `json:"total"`
}

// NewLineItemTotal computes the stored total for a price/quantity pair.
func NewLineItemTotal(price decimal.Decimal, quantity int) string {
	return price.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2)
}
