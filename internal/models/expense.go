package models

// ExpenseEntry represents a dated business expense. No derived fields.
type ExpenseEntry struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Date is the calendar day of the expense in YYYY-MM-DD form.
	Date string `json:"date"`

	// Category is the expense group label (see ExpenseCategories).
	Category string `json:"category"`

	// Amount is the expense value.
	Amount float64 `json:"amount"`

	// Notes is an optional free-text description.
	Notes string `json:"notes,omitempty"`
}

// ExpenseCategories are the expense group labels offered by the UI.
var ExpenseCategories = []string{
	"Ingredients",
	"Packaging",
	"Gas/Fuel",
	"Labor/Helper",
	"Transportation",
	"Marketing",
	"Utilities",
	"Other",
}
