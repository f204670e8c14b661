package core

import "errors"

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type (
	// Transaction is a single income or expense record. Dates are stored as
	// ISO-8601-like strings and compared lexically, matching the storage
	// layer's TEXT column.
	Transaction struct {
		ID          int64   `json:"id"`
		Type        string  `json:"type"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Description string  `json:"description,omitempty"`
		Date        string  `json:"date"`
	}

	// CategorySum is the per-category expense total used by the summary
	// endpoint and the category chart.
	CategorySum struct {
		Category    string  `json:"category"`
		TotalAmount float64 `json:"totalAmount"`
	}

	// TypeTotals holds income/expense totals for a filtered range.
	TypeTotals struct {
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Balance  float64 `json:"balance"`
	}

	// DailySum is one point of a per-day time series, keyed by the date part
	// (first ten characters) of the stored date string.
	DailySum struct {
		Date  string  `json:"date"`
		Total float64 `json:"total"`
	}
)

// ErrMissingFields is returned when a required creation field is absent.
// The message is part of the API contract.
var ErrMissingFields = errors.New("Missing required fields: type, amount, category, or date")

// ValidateForCreate checks that the required fields are present. Presence
// only: amount is not range-checked and date is not parsed, a zero amount
// counts as absent.
func (t Transaction) ValidateForCreate() error {
	if t.Type == "" || t.Amount == 0 || t.Category == "" || t.Date == "" {
		return ErrMissingFields
	}
	return nil
}
