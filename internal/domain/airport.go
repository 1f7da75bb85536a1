package domain

import "strings"

// Airport is a canonical IATA airport reference. Equality and hashing
// are defined over Code only; Name/City/Country are descriptive.
type Airport struct {
	Code    string
	Name    string
	City    string
	Country string
}

// NewAirport validates and builds an Airport. Code must be exactly
// three alphabetic characters once trimmed and uppercased.
func NewAirport(code, name, city, country string) (Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 || !isAlpha(code) {
		return Airport{}, NewValidationError("code", code, "airport code must be exactly 3 alphabetic characters")
	}
	return Airport{Code: code, Name: name, City: city, Country: country}, nil
}

// Equal compares two airports by code only.
func (a Airport) Equal(other Airport) bool {
	return a.Code == other.Code
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		alpha := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		digit := r >= '0' && r <= '9'
		if !alpha && !digit {
			return false
		}
	}
	return true
}
