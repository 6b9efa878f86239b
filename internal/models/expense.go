package models

// SplitPolicy is the rule used to divide an expense among participants.
type SplitPolicy string

const (
	// SplitEqual divides the amount evenly, assigning leftover minor
	// units to the first participants in stable order.
	SplitEqual SplitPolicy = "equal"

	// SplitPercentage divides by per-participant percentages that must
	// sum to 100.
	SplitPercentage SplitPolicy = "percentage"

	// SplitCustom uses exact per-participant amounts that must sum to
	// the expense total.
	SplitCustom SplitPolicy = "custom"
)

// Valid reports whether the policy is one of the known split policies.
func (p SplitPolicy) Valid() bool {
	switch p {
	case SplitEqual, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// ExpenseCategory classifies an expense for filtering and reporting.
type ExpenseCategory string

const (
	CategoryFood      ExpenseCategory = "food"
	CategoryLodging   ExpenseCategory = "lodging"
	CategoryTransport ExpenseCategory = "transport"
	CategoryActivity  ExpenseCategory = "activity"
	CategoryShopping  ExpenseCategory = "shopping"
	CategoryOther     ExpenseCategory = "other"
)

// Valid reports whether the category is one of the known categories.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryLodging, CategoryTransport,
		CategoryActivity, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// Expense represents a shared cost within a trip.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// PaidBy is the user ID of the participant who paid.
	PaidBy string

	// Description is a short human-readable label.
	Description string

	// AmountMinor is the total amount in currency minor units.
	AmountMinor int64

	// Currency is the ISO 4217 code (e.g., "USD").
	Currency string

	// Category classifies the expense.
	Category ExpenseCategory

	// Policy is the split policy the shares were computed under.
	Policy SplitPolicy

	// Splits are the per-participant shares. Created atomically with
	// the expense, never mutated; deleted only when the expense is
	// deleted (cascade).
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit is one participant's share of an expense.
type ExpenseSplit struct {
	ExpenseID     string
	ParticipantID string

	// AmountMinor is this participant's share in currency minor units.
	AmountMinor int64
}
