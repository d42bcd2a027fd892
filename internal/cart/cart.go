package cart

import (
	"github.com/google/uuid"

	"github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

// Package is the catalog snapshot a cart line is priced against. It is
// immutable for the duration of one POS transaction.
type Package struct {
	ID               uuid.UUID
	Name             string
	UnitPriceRupiah  int
	Unit             string
	MinOrderQuantity int
}

// Line is one priced cart entry. SubtotalRupiah is always Quantity times the
// package unit price.
type Line struct {
	Package        Package
	Quantity       int
	SubtotalRupiah int
}

// Advisory reports a non-fatal quantity adjustment made while adding an item.
type Advisory struct {
	PackageID         uuid.UUID `json:"package_id"`
	RequestedQuantity int       `json:"requested_quantity"`
	EffectiveQuantity int       `json:"effective_quantity"`
}

// Cart holds the lines of one in-progress POS transaction. It is not safe
// for concurrent use; each cashier session owns exactly one cart.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem appends or merges a line for the package. A requested quantity
// below the package minimum is silently raised to the minimum and reported
// through the returned advisory. Quantities of zero or less are rejected.
func (c *Cart) AddItem(pkg Package, requestedQuantity int) (*Advisory, error) {
	if requestedQuantity <= 0 {
		return nil, errors.New(errors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"package_id": pkg.ID.String(), "quantity": requestedQuantity})
	}
	if pkg.UnitPriceRupiah < 0 {
		return nil, errors.New(errors.CodeValidation, "package has a negative unit price").
			WithDetails(map[string]any{"package_id": pkg.ID.String()})
	}

	var advisory *Advisory
	effective := requestedQuantity
	if effective < pkg.MinOrderQuantity {
		effective = pkg.MinOrderQuantity
		advisory = &Advisory{
			PackageID:         pkg.ID,
			RequestedQuantity: requestedQuantity,
			EffectiveQuantity: effective,
		}
	}

	for i := range c.lines {
		if c.lines[i].Package.ID == pkg.ID {
			c.lines[i].Quantity += effective
			c.lines[i].SubtotalRupiah = c.lines[i].Quantity * c.lines[i].Package.UnitPriceRupiah
			return advisory, nil
		}
	}

	c.lines = append(c.lines, Line{
		Package:        pkg,
		Quantity:       effective,
		SubtotalRupiah: effective * pkg.UnitPriceRupiah,
	})
	return advisory, nil
}

// RemoveItem drops the line for the package. Removing an absent package is
// a no-op, not an error.
func (c *Cart) RemoveItem(packageID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].Package.ID == packageID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Subtotal sums all line subtotals. An empty cart totals zero.
func (c *Cart) Subtotal() int {
	total := 0
	for _, line := range c.lines {
		total += line.SubtotalRupiah
	}
	return total
}

// Lines returns a copy of the current cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear empties the cart. Used on reset or customer switch.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
