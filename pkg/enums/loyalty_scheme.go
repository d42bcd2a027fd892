package enums

import "fmt"

// LoyaltyScheme is the active point-earning rule. Exactly one scheme is active
// at a time; switching is a settings change, never a per-transaction concern.
type LoyaltyScheme string

const (
	LoyaltySchemeDisabled       LoyaltyScheme = "disabled"
	LoyaltySchemePerSpendAmount LoyaltyScheme = "per_spend_amount"
	LoyaltySchemePerWeight      LoyaltyScheme = "per_weight"
	LoyaltySchemePerVisit       LoyaltyScheme = "per_visit"
)

var validLoyaltySchemes = []LoyaltyScheme{
	LoyaltySchemeDisabled,
	LoyaltySchemePerSpendAmount,
	LoyaltySchemePerWeight,
	LoyaltySchemePerVisit,
}

// String implements fmt.Stringer.
func (s LoyaltyScheme) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LoyaltyScheme.
func (s LoyaltyScheme) IsValid() bool {
	for _, candidate := range validLoyaltySchemes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLoyaltyScheme converts raw input into a LoyaltyScheme.
func ParseLoyaltyScheme(value string) (LoyaltyScheme, error) {
	for _, candidate := range validLoyaltySchemes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty scheme %q", value)
}
