package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwiprasetya/laundrypos-backend/internal/cart"
	"github.com/dwiprasetya/laundrypos-backend/internal/delivery"
	"github.com/dwiprasetya/laundrypos-backend/internal/loyalty"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	"github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

func km(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func cartWithSubtotal(t *testing.T, subtotal int) *cart.Cart {
	t.Helper()
	c := cart.New()
	_, err := c.AddItem(cart.Package{
		ID:              uuid.New(),
		Name:            "Cuci Kering",
		UnitPriceRupiah: subtotal,
		Unit:            "paket",
	}, 1)
	require.NoError(t, err)
	return c
}

func onSite() delivery.Selection {
	return delivery.Selection{Mode: enums.DeliveryModeOnSiteOnly}
}

func TestQuoteNoExtrasMatchesSubtotal(t *testing.T) {
	// scenario: plain cart, no delivery, no membership, no redemption
	q, err := Compute(Input{
		Cart:     cartWithSubtotal(t, 50000),
		Delivery: onSite(),
	})
	require.NoError(t, err)
	assert.Equal(t, 50000, q.SubtotalRupiah)
	assert.Equal(t, 0, q.DeliveryFeeRupiah)
	assert.Equal(t, 50000, q.GrandTotalRupiah)
}

func TestQuoteAddsCombinedDeliveryFees(t *testing.T) {
	q, err := Compute(Input{
		Cart: cartWithSubtotal(t, 100000),
		Delivery: delivery.Selection{
			Mode:       enums.DeliveryModePickupAndDropoff,
			DistanceKm: km("5"),
		},
		DeliveryPolicy: delivery.Policy{
			Enabled:               true,
			FreePickupDistanceKm:  km("2"),
			PickupFeeRupiah:       10000,
			FreeDropoffDistanceKm: km("3"),
			DropoffFeeRupiah:      8000,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 18000, q.DeliveryFeeRupiah)
	assert.Equal(t, 118000, q.GrandTotalRupiah)
}

func TestQuoteAppliesRedemption(t *testing.T) {
	q, err := Compute(Input{
		Cart:     cartWithSubtotal(t, 40000),
		Delivery: onSite(),
		LoyaltyPolicy: loyalty.Policy{
			RupiahPerPointRedeemed: 1000,
			MinPointsToRedeem:      5,
		},
		CustomerPoints: 50,
		RedeemPoints:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10000, q.RedeemDiscountRupiah)
	assert.Equal(t, 10, q.PointsRedeemed)
	assert.Equal(t, 30000, q.GrandTotalRupiah)
}

func TestQuoteRejectsRedemptionBelowMinimum(t *testing.T) {
	_, err := Compute(Input{
		Cart:     cartWithSubtotal(t, 40000),
		Delivery: onSite(),
		LoyaltyPolicy: loyalty.Policy{
			RupiahPerPointRedeemed: 1000,
			MinPointsToRedeem:      20,
		},
		CustomerPoints: 50,
		RedeemPoints:   10,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeValidation))
}

func TestQuoteRedemptionValidatedAgainstChargeableTotal(t *testing.T) {
	// discount of 45000 exceeds the bare subtotal of 40000 but not the
	// chargeable total once the 10000 delivery fee is included
	in := Input{
		Cart: cartWithSubtotal(t, 40000),
		Delivery: delivery.Selection{
			Mode:       enums.DeliveryModePickupOnly,
			DistanceKm: km("5"),
		},
		DeliveryPolicy: delivery.Policy{
			Enabled:              true,
			FreePickupDistanceKm: km("2"),
			PickupFeeRupiah:      10000,
		},
		LoyaltyPolicy: loyalty.Policy{
			RupiahPerPointRedeemed: 1000,
			MinPointsToRedeem:      5,
		},
		CustomerPoints: 100,
		RedeemPoints:   45,
	}

	q, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, 45000, q.RedeemDiscountRupiah)
	assert.Equal(t, 5000, q.GrandTotalRupiah)
}

func TestQuoteMembershipUpgradeFeeInChargeableTotal(t *testing.T) {
	q, err := Compute(Input{
		Cart:     cartWithSubtotal(t, 30000),
		Delivery: onSite(),
		LoyaltyPolicy: loyalty.Policy{
			MembershipFeeRequired:  true,
			MembershipFeeRupiah:    25000,
			RupiahPerPointRedeemed: 1000,
			MinPointsToRedeem:      5,
		},
		CustomerPoints:    100,
		UpgradeMembership: true,
		RedeemPoints:      50,
	})
	require.NoError(t, err)
	assert.Equal(t, 25000, q.MembershipFeeRupiah)
	assert.True(t, q.MembershipGranted)
	// 30000 + 25000 - 50000
	assert.Equal(t, 5000, q.GrandTotalRupiah)
}

func TestQuoteRejectsUpgradeForExistingMember(t *testing.T) {
	_, err := Compute(Input{
		Cart:                 cartWithSubtotal(t, 30000),
		Delivery:             onSite(),
		LoyaltyPolicy:        loyalty.Policy{MembershipFeeRequired: true, MembershipFeeRupiah: 25000},
		CustomerIsPaidMember: true,
		UpgradeMembership:    true,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeStateConflict))
}

func TestQuoteEarnsPointsWithMerchandiseBonus(t *testing.T) {
	q, err := Compute(Input{
		Cart:     cartWithSubtotal(t, 45000),
		Delivery: onSite(),
		LoyaltyPolicy: loyalty.Policy{
			Scheme:                  enums.LoyaltySchemePerSpendAmount,
			RupiahPerPointEarned:    10000,
			MerchandiseBonusEnabled: true,
			MerchandiseBonusPoints:  3,
		},
		BroughtMerchandise: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 4+3, q.PointsEarned)
}

func TestQuoteIsDeterministic(t *testing.T) {
	in := Input{
		Cart: cartWithSubtotal(t, 88000),
		Delivery: delivery.Selection{
			Mode:       enums.DeliveryModeDropoffOnly,
			DistanceKm: km("4.5"),
		},
		DeliveryPolicy: delivery.Policy{
			Enabled:               true,
			FreeDropoffDistanceKm: km("3"),
			DropoffFeeRupiah:      8000,
		},
		LoyaltyPolicy: loyalty.Policy{
			Scheme:                 enums.LoyaltySchemePerWeight,
			KgPerPoint:             km("2"),
			PointsPerKg:            1,
			RupiahPerPointRedeemed: 1000,
			MinPointsToRedeem:      5,
		},
		CustomerPoints: 40,
		RedeemPoints:   20,
		TotalWeightKg:  km("7"),
	}

	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
