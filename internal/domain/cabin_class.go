package domain

// CabinClassType enumerates the four supported service tiers.
type CabinClassType string

const (
	CabinEconomy        CabinClassType = "economy"
	CabinPremiumEconomy CabinClassType = "premium-economy"
	CabinBusiness       CabinClassType = "business"
	CabinFirst          CabinClassType = "first"
)

// CabinClass wraps a CabinClassType, validated against the closed set.
type CabinClass struct {
	ClassType CabinClassType
}

// NewCabinClass validates the class type against the four known tiers.
func NewCabinClass(classType CabinClassType) (CabinClass, error) {
	switch classType {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return CabinClass{ClassType: classType}, nil
	default:
		return CabinClass{}, NewValidationError("cabin_class", string(classType), "unknown cabin class")
	}
}

// IsPremium is true for every tier but economy.
func (c CabinClass) IsPremium() bool {
	return c.ClassType != CabinEconomy
}

// ParseCabinClassAlias maps loosely-formatted caller input (case
// insensitive, with common separator variants) to a CabinClassType,
// defaulting to economy on anything unrecognized.
func ParseCabinClassAlias(raw string) CabinClassType {
	normalized := normalizeCabinAlias(raw)
	switch normalized {
	case "economy":
		return CabinEconomy
	case "premiumeconomy":
		return CabinPremiumEconomy
	case "business":
		return CabinBusiness
	case "first":
		return CabinFirst
	default:
		return CabinEconomy
	}
}

func normalizeCabinAlias(raw string) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r-'A'+'a')
		case r >= 'a' && r <= 'z':
			out = append(out, r)
		case r == ' ' || r == '_' || r == '-':
			// separators are dropped entirely so "premium economy",
			// "premium_economy" and "premium-economy" all normalize
			// to the same token as "premiumeconomy"
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
