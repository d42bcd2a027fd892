package delivery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

func km(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func standardPolicy() Policy {
	return Policy{
		Enabled:               true,
		FreePickupDistanceKm:  km("2"),
		PickupFeeRupiah:       10000,
		FreeDropoffDistanceKm: km("3"),
		DropoffFeeRupiah:      8000,
	}
}

func TestComputeFeeDisabledServiceIsAlwaysFree(t *testing.T) {
	policy := standardPolicy()
	policy.Enabled = false

	sel := Selection{Mode: enums.DeliveryModePickupAndDropoff, DistanceKm: km("50")}
	assert.Equal(t, 0, ComputeFee(sel, policy))
}

func TestComputeFeeOnSiteIsFree(t *testing.T) {
	sel := Selection{Mode: enums.DeliveryModeOnSiteOnly, DistanceKm: km("50")}
	assert.Equal(t, 0, ComputeFee(sel, standardPolicy()))
}

func TestComputeFeeThresholdBoundaryIsFree(t *testing.T) {
	policy := standardPolicy()

	atThreshold := Selection{Mode: enums.DeliveryModePickupOnly, DistanceKm: km("2")}
	assert.Equal(t, 0, ComputeFee(atThreshold, policy))

	justOver := Selection{Mode: enums.DeliveryModePickupOnly, DistanceKm: km("2.01")}
	assert.Equal(t, 10000, ComputeFee(justOver, policy))
}

func TestComputeFeeCombinedModeIsAdditive(t *testing.T) {
	policy := standardPolicy()

	sel := Selection{Mode: enums.DeliveryModePickupAndDropoff, DistanceKm: km("5")}
	assert.Equal(t, 18000, ComputeFee(sel, policy))
}

func TestComputeFeeLegsUseTheirOwnThresholds(t *testing.T) {
	policy := standardPolicy()

	// 2.5km is past the pickup threshold but within the dropoff threshold
	sel := Selection{Mode: enums.DeliveryModePickupAndDropoff, DistanceKm: km("2.5")}
	assert.Equal(t, 10000, ComputeFee(sel, policy))

	dropoffOnly := Selection{Mode: enums.DeliveryModeDropoffOnly, DistanceKm: km("2.5")}
	assert.Equal(t, 0, ComputeFee(dropoffOnly, policy))
}
