package types

import "strings"

// Address is the customer delivery address stored as jsonb on the customer row.
type Address struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city" validate:"required"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// IsZero reports whether no address fields were provided.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.Line2) == "" &&
		strings.TrimSpace(a.District) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Province) == "" &&
		strings.TrimSpace(a.PostalCode) == ""
}
