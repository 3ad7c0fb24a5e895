package format

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price renders a decimal amount with the storefront currency symbol.
// Example: Price(decimal.NewFromFloat(36.5)) => "36.50 €"
func Price(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " €"
}

// Date formats a timestamp in a short, human-friendly form.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// DatePtr formats an optional timestamp, returning "" when absent.
func DatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Date(*t)
}
