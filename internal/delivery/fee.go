package delivery

import (
	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

// Policy is the owner-configured delivery pricing, snapshotted per quote.
type Policy struct {
	Enabled               bool
	FreePickupDistanceKm  decimal.Decimal
	PickupFeeRupiah       int
	FreeDropoffDistanceKm decimal.Decimal
	DropoffFeeRupiah      int
}

// Selection is the cashier's delivery choice for one order.
type Selection struct {
	Mode       enums.DeliveryMode
	DistanceKm decimal.Decimal
}

// ComputeFee prices the pickup and dropoff legs. Fees are additive when the
// mode covers both legs. A distance exactly at the free threshold stays
// free; the comparison is strictly greater-than.
func ComputeFee(sel Selection, policy Policy) int {
	if !policy.Enabled || sel.Mode == enums.DeliveryModeOnSiteOnly {
		return 0
	}

	fee := 0
	if sel.Mode.IncludesPickup() && sel.DistanceKm.GreaterThan(policy.FreePickupDistanceKm) {
		fee += policy.PickupFeeRupiah
	}
	if sel.Mode.IncludesDropoff() && sel.DistanceKm.GreaterThan(policy.FreeDropoffDistanceKm) {
		fee += policy.DropoffFeeRupiah
	}
	return fee
}
