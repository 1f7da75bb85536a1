// Package money formats Price values for display in the search_flights
// response summary, adapted from the teacher's currency formatting
// helpers.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders a decimal amount with thousands separators for
// the given currency code, e.g. FormatAmount(1234.5, "USD") -> "USD 1,234.50".
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	p := message.NewPrinter(language.English)
	f, _ := amount.Float64()
	return p.Sprintf("%s %.2f", currencyCode, f)
}

// Range is a low/high price pair reported in the search summary.
type Range struct {
	Min      decimal.Decimal
	Max      decimal.Decimal
	Currency string
}

// FormatRange renders a price range as "USD 299.00 - USD 399.00".
func FormatRange(r Range) string {
	return fmt.Sprintf("%s - %s", FormatAmount(r.Min, r.Currency), FormatAmount(r.Max, r.Currency))
}
