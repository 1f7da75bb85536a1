package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Price is a non-negative fixed-point amount with at most two
// fractional digits, tagged with an ISO-4217 currency code. Ordering
// and arithmetic are only defined between prices of the same currency.
type Price struct {
	Amount   decimal.Decimal
	Currency string
}

// NewPrice validates and builds a Price.
func NewPrice(amount decimal.Decimal, currency string) (Price, error) {
	if amount.IsNegative() {
		return Price{}, NewValidationError("amount", amount.String(), "price amount must be non-negative")
	}
	if amount.Exponent() < -2 {
		return Price{}, NewValidationError("amount", amount.String(), "price amount must have at most 2 fractional digits")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !currencyPattern.MatchString(currency) {
		return Price{}, NewValidationError("currency", currency, "currency must be a 3-letter ISO-4217 code")
	}
	return Price{Amount: amount, Currency: currency}, nil
}

// sameCurrency reports whether two prices can be compared/combined.
func (p Price) sameCurrency(other Price) error {
	if p.Currency != other.Currency {
		return NewValidationError("currency", other.Currency, "cannot compare prices in different currencies")
	}
	return nil
}

// LessThan reports p < other; returns an error on currency mismatch.
func (p Price) LessThan(other Price) (bool, error) {
	if err := p.sameCurrency(other); err != nil {
		return false, err
	}
	return p.Amount.LessThan(other.Amount), nil
}

// Equal reports value equality (amount and currency).
func (p Price) Equal(other Price) bool {
	return p.Currency == other.Currency && p.Amount.Equal(other.Amount)
}

// AbsDiff returns |p - other| as a decimal; error on currency mismatch.
func (p Price) AbsDiff(other Price) (decimal.Decimal, error) {
	if err := p.sameCurrency(other); err != nil {
		return decimal.Zero, err
	}
	return p.Amount.Sub(other.Amount).Abs(), nil
}

// Mean returns the arithmetic mean of p and other; error on mismatch.
func (p Price) Mean(other Price) (decimal.Decimal, error) {
	if err := p.sameCurrency(other); err != nil {
		return decimal.Zero, err
	}
	return p.Amount.Add(other.Amount).Div(decimal.NewFromInt(2)), nil
}
