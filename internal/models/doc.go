// Package models defines the core domain types for the bill tracker.
//
// # Persistence schema
//
// The entire collection of billing lists is serialized as one JSON array
// under a single storage key ("billingLists"). The JSON tags on
// BillingList and LineItem are therefore the on-disk schema; changing
// them requires a migration step on load.
//
// # Money
//
// Prices use shopspring/decimal to avoid float drift. Per-item totals
// and the list grand total are stored as two-decimal strings, computed
// once when an item is inserted and never recomputed from price and
// quantity afterwards. BillingList.RunningTotal is the independent live
// formula (price x quantity summed directly) used for on-screen display.
package models
