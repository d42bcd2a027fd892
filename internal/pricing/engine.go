package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/internal/cart"
	"github.com/dwiprasetya/laundrypos-backend/internal/delivery"
	"github.com/dwiprasetya/laundrypos-backend/internal/loyalty"
)

// Input is everything a quote depends on, snapshotted at call time. The
// engine never reads live settings or customer state.
type Input struct {
	Cart           *cart.Cart
	Delivery       delivery.Selection
	DeliveryPolicy delivery.Policy
	LoyaltyPolicy  loyalty.Policy

	CustomerPoints       int
	CustomerIsPaidMember bool

	UpgradeMembership  bool
	RedeemPoints       int
	TotalWeightKg      decimal.Decimal
	BroughtMerchandise bool
}

// Quote is the derived pricing result. It is never persisted until commit
// and always satisfies:
//
//	GrandTotal = Subtotal + DeliveryFee + MembershipFee - RedeemDiscount
type Quote struct {
	SubtotalRupiah       int
	DeliveryFeeRupiah    int
	MembershipFeeRupiah  int
	RedeemDiscountRupiah int
	GrandTotalRupiah     int

	PointsRedeemed    int
	PointsEarned      int
	MembershipGranted bool
}

// Compute builds the quote in a fixed order: cart subtotal, delivery fee,
// membership fee, then redemption validated against the sum of the first
// three. Redemption must see delivery and membership fees included, or a
// valid redemption could be wrongly rejected against the bare subtotal.
// Pure function; identical input yields an identical quote.
func Compute(in Input) (Quote, error) {
	q := Quote{}

	q.SubtotalRupiah = in.Cart.Subtotal()
	q.DeliveryFeeRupiah = delivery.ComputeFee(in.Delivery, in.DeliveryPolicy)

	if in.UpgradeMembership {
		fee, err := loyalty.ValidateMembershipUpgrade(in.CustomerIsPaidMember, in.LoyaltyPolicy)
		if err != nil {
			return Quote{}, err
		}
		q.MembershipFeeRupiah = fee
		q.MembershipGranted = true
	}

	chargeable := q.SubtotalRupiah + q.DeliveryFeeRupiah + q.MembershipFeeRupiah

	if in.RedeemPoints > 0 {
		discount, err := loyalty.ValidateRedemption(in.RedeemPoints, in.CustomerPoints, in.LoyaltyPolicy, chargeable)
		if err != nil {
			return Quote{}, err
		}
		q.RedeemDiscountRupiah = discount
		q.PointsRedeemed = in.RedeemPoints
	}

	q.GrandTotalRupiah = chargeable - q.RedeemDiscountRupiah

	metrics := loyalty.OrderMetrics{
		SubtotalRupiah: q.SubtotalRupiah,
		TotalWeightKg:  in.TotalWeightKg,
	}
	q.PointsEarned = loyalty.PointsEarned(in.LoyaltyPolicy, metrics) +
		loyalty.MerchandiseBonus(in.LoyaltyPolicy, in.BroughtMerchandise)

	return q, nil
}
