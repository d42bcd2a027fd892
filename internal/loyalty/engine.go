package loyalty

import (
	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	"github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

// Rejection reasons surfaced in error details so the POS client can show a
// specific message per failure.
const (
	ReasonBelowMinimum   = "below_minimum"
	ReasonInsufficient   = "insufficient_balance"
	ReasonExceedsPayable = "exceeds_payable"
	ReasonAlreadyMember  = "already_member"
)

// Policy is the loyalty configuration snapshot taken at quote time. Exactly
// one earning scheme is active; redemption rules apply regardless of scheme.
type Policy struct {
	Scheme                 enums.LoyaltyScheme
	RupiahPerPointEarned   int
	KgPerPoint             decimal.Decimal
	PointsPerKg            int
	PointsPerVisit         int
	RupiahPerPointRedeemed int
	MinPointsToRedeem      int
	MembershipFeeRequired  bool
	MembershipFeeRupiah    int

	MerchandiseBonusEnabled bool
	MerchandiseBonusPoints  int
}

// OrderMetrics carries the quantities the earning schemes dispatch on.
type OrderMetrics struct {
	SubtotalRupiah int
	TotalWeightKg  decimal.Decimal
}

// PointsEarned computes the points the order will award on commit. A
// misconfigured divisor yields zero points rather than a panic; settings
// validation rejects those configs before they reach a quote.
func PointsEarned(policy Policy, metrics OrderMetrics) int {
	switch policy.Scheme {
	case enums.LoyaltySchemePerSpendAmount:
		if policy.RupiahPerPointEarned <= 0 || metrics.SubtotalRupiah <= 0 {
			return 0
		}
		return metrics.SubtotalRupiah / policy.RupiahPerPointEarned

	case enums.LoyaltySchemePerWeight:
		if policy.KgPerPoint.LessThanOrEqual(decimal.Zero) || policy.PointsPerKg <= 0 {
			return 0
		}
		units := metrics.TotalWeightKg.Div(policy.KgPerPoint).Floor()
		if units.IsNegative() {
			return 0
		}
		return int(units.IntPart()) * policy.PointsPerKg

	case enums.LoyaltySchemePerVisit:
		if policy.PointsPerVisit < 0 {
			return 0
		}
		return policy.PointsPerVisit

	default:
		return 0
	}
}

// MerchandiseBonus returns the flat bonus for customers who bring reusable
// merchandise. It is additive to PointsEarned and independent of the scheme.
func MerchandiseBonus(policy Policy, broughtMerchandise bool) int {
	if !policy.MerchandiseBonusEnabled || !broughtMerchandise {
		return 0
	}
	if policy.MerchandiseBonusPoints < 0 {
		return 0
	}
	return policy.MerchandiseBonusPoints
}

// ValidateRedemption checks the requested redemption against the policy, the
// customer's balance, and the chargeable total (subtotal + delivery fee +
// membership fee). On success it returns the discount value in rupiah.
func ValidateRedemption(requestedPoints int, customerPoints int, policy Policy, chargeableTotal int) (int, error) {
	if requestedPoints <= 0 {
		return 0, errors.New(errors.CodeValidation, "redeemed points must be positive").
			WithDetails(map[string]any{"requested_points": requestedPoints})
	}
	if policy.RupiahPerPointRedeemed <= 0 {
		return 0, errors.New(errors.CodeInternal, "loyalty policy has no redemption rate configured")
	}
	if requestedPoints < policy.MinPointsToRedeem {
		return 0, errors.New(errors.CodeValidation, "redeemed points are below the minimum").
			WithDetails(map[string]any{
				"reason":         ReasonBelowMinimum,
				"requested":      requestedPoints,
				"minimum_points": policy.MinPointsToRedeem,
			})
	}
	if requestedPoints > customerPoints {
		return 0, errors.New(errors.CodeValidation, "customer has insufficient points").
			WithDetails(map[string]any{
				"reason":    ReasonInsufficient,
				"requested": requestedPoints,
				"balance":   customerPoints,
			})
	}

	discount := requestedPoints * policy.RupiahPerPointRedeemed
	if discount > chargeableTotal {
		return 0, errors.New(errors.CodeValidation, "redemption discount exceeds the payable amount").
			WithDetails(map[string]any{
				"reason":           ReasonExceedsPayable,
				"discount":         discount,
				"chargeable_total": chargeableTotal,
			})
	}
	return discount, nil
}

// ValidateMembershipUpgrade returns the one-time fee to charge when upgrading
// the customer to paid membership. Already-paid members are rejected.
func ValidateMembershipUpgrade(isPaidMember bool, policy Policy) (int, error) {
	if isPaidMember {
		return 0, errors.New(errors.CodeStateConflict, "customer is already a paid member").
			WithDetails(map[string]any{"reason": ReasonAlreadyMember})
	}
	if !policy.MembershipFeeRequired {
		return 0, nil
	}
	return policy.MembershipFeeRupiah, nil
}
