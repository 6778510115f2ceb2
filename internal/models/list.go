package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied to every list at creation. The app is
// single-currency; the field is stored so the document stays self-contained.
const DefaultCurrency = "INR"

// BillingList is a named collection of line items representing one bill.
// The full collection of lists is serialized as a single JSON document,
// so these field names are the persisted schema.
type BillingList struct {
	// ID is a numeric snowflake string. IDs are time-ordered, so sorting
	// by ID descending yields most-recent-first.
	ID string `json:"id"`

	// Title is the user-chosen name, unique case-insensitively across
	// all lists. Validated by the billing store on creation.
	Title string `json:"title"`

	// Currency is always DefaultCurrency; not user-editable.
	Currency string `json:"currency"`

	// Timezone is the host timezone captured at creation. Informational only.
	Timezone string `json:"timezone"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"dateCreated"`

	// Address is optional free text printed on the invoice.
	Address string `json:"address,omitempty"`

	// Items is append-only; items are never edited or removed.
	Items []LineItem `json:"items"`

	// GrandTotal is the cached sum of item totals, formatted to two
	// decimals. Empty until the first item is added.
	GrandTotal string `json:"grandTotal,omitempty"`
}

// RunningTotal computes the live total directly from price and quantity.
// This is deliberately a separate formula from the cached GrandTotal
// (which sums the stored per-item totals); the two agree because each
// item's total is fixed at price*quantity on insertion.
func (l *BillingList) RunningTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range l.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Clone returns a deep copy so callers can hand out snapshots without
// aliasing the store's live collection.
func (l *BillingList) Clone() BillingList {
	cp := *l
	if l.Items != nil {
		cp.Items = make([]LineItem, len(l.Items))
		copy(cp.Items, l.Items)
	}
	return cp
}

// FormatCreatedAt renders the creation date the way the list screen
// shows it, e.g. "2 January 2006".
func (l *BillingList) FormatCreatedAt() string {
	return l.CreatedAt.Format("2 January 2006")
}
