package enums

import "fmt"

// DeliveryMode captures how the laundry moves between customer and outlet.
type DeliveryMode string

const (
	DeliveryModeOnSiteOnly       DeliveryMode = "on_site_only"
	DeliveryModePickupOnly       DeliveryMode = "pickup_only"
	DeliveryModeDropoffOnly      DeliveryMode = "dropoff_only"
	DeliveryModePickupAndDropoff DeliveryMode = "pickup_and_dropoff"
)

var validDeliveryModes = []DeliveryMode{
	DeliveryModeOnSiteOnly,
	DeliveryModePickupOnly,
	DeliveryModeDropoffOnly,
	DeliveryModePickupAndDropoff,
}

// String implements fmt.Stringer.
func (d DeliveryMode) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryMode.
func (d DeliveryMode) IsValid() bool {
	for _, candidate := range validDeliveryModes {
		if candidate == d {
			return true
		}
	}
	return false
}

// IncludesPickup reports whether the courier collects laundry from the customer.
func (d DeliveryMode) IncludesPickup() bool {
	return d == DeliveryModePickupOnly || d == DeliveryModePickupAndDropoff
}

// IncludesDropoff reports whether the courier returns laundry to the customer.
func (d DeliveryMode) IncludesDropoff() bool {
	return d == DeliveryModeDropoffOnly || d == DeliveryModePickupAndDropoff
}

// ParseDeliveryMode converts raw input into a DeliveryMode.
func ParseDeliveryMode(value string) (DeliveryMode, error) {
	for _, candidate := range validDeliveryModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery mode %q", value)
}
