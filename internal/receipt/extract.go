// Package receipt turns uploaded receipt files into suggested transaction
// fields: a real text scan for PDFs and an explicitly simulated result for
// everything else.
package receipt

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"

	"github.com/shopspring/decimal"
)

// Categories attached to extracted amounts.
const (
	CategorySimulated = "Extracted"
	CategoryPDF       = "PDF Receipt"
)

// ErrAmountNotFound means the text contained no recognizable total.
var ErrAmountNotFound = errors.New("no total amount found")

// totalAmountRe matches the literal "Total Amount" followed anywhere later in
// the text, across lines, by a decimal number with exactly two fraction
// digits. This is the only receipt layout supported; there is no fallback
// parsing strategy.
var totalAmountRe = regexp.MustCompile(`(?s)Total Amount.*?(\d+\.\d{2})`)

// Extracted is a suggested transaction derived from an uploaded receipt.
// Simulated is true when the amount was fabricated without inspecting the
// file content.
type Extracted struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Simulated   bool    `json:"simulated,omitempty"`
}

// ScanTotal searches text for the "Total Amount" pattern and returns the
// matched value. A matched 0.00 counts as not found, same as no match.
func ScanTotal(text string) (float64, error) {
	m := totalAmountRe.FindStringSubmatch(text)
	if m == nil {
		return 0, ErrAmountNotFound
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil || d.IsZero() {
		return 0, ErrAmountNotFound
	}
	return d.InexactFloat64(), nil
}

// Simulate fabricates an extraction result for image receipts: an amount
// drawn uniformly from [20, 100) rounded to two decimals. The file content is
// never inspected; the result is labeled as simulated.
func Simulate(filename string) Extracted {
	amount := decimal.NewFromFloat(rand.Float64()*80 + 20).Round(2)
	return Extracted{
		Amount:      amount.InexactFloat64(),
		Category:    CategorySimulated,
		Description: fmt.Sprintf("Extracted from %s", filename),
		Simulated:   true,
	}
}
