// Package models defines the domain entities for the finance tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the user-facing toggle for a lending transaction.
type Direction string

const (
	// DirectionLent means the user lent money: the signed amount is +magnitude.
	DirectionLent Direction = "lent"
	// DirectionReceived means the user received money back (or borrowed):
	// the signed amount is -magnitude.
	DirectionReceived Direction = "received"
)

// Fallback styling for expenses whose category name no longer resolves.
// Categories are referenced by name, not by foreign key, so a category can
// be deleted while expenses still carry its name.
const (
	FallbackIcon  = "questionmark.circle"
	FallbackColor = "#8E8E93"
)

// Category represents an expense category.
type Category struct {
	ID        int
	Name      string
	Icon      string
	Color     string // hex triplet, e.g. "#FF9500"
	SortOrder int
	IsDefault bool
	CreatedAt time.Time
}

// Expense represents a single expense entry. Amount is always positive.
type Expense struct {
	ID        int
	Amount    decimal.Decimal
	Date      time.Time // calendar date, time-of-day is not significant
	Category  string    // category name; may dangle after category deletion
	Note      string
	Method    string // payment method label, optional
	CreatedAt time.Time
}

// Person is someone the user lends money to or borrows from.
// NetBalance caches the sum of the amounts of all owned lending records;
// positive means the person owes the user. The cache is maintained by the
// ledger service in the same transaction as every record insert/delete.
type Person struct {
	ID         int
	Name       string
	NetBalance decimal.Decimal
	Records    []LendingRecord
	CreatedAt  time.Time
}

// LendingRecord is a single lending transaction owned by exactly one person.
// Amount is signed: positive = money lent out, negative = money received.
type LendingRecord struct {
	ID        int
	PersonID  int
	Amount    decimal.Decimal
	Date      time.Time
	Note      string
	CreatedAt time.Time

	// PersonName is populated by queries that join the owning person.
	PersonName string
}
