package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

// BusinessSettings is a single-row table holding the owner-tunable pricing
// and loyalty policy shared by all outlets. Quotes read a snapshot of this
// row so a mid-quote settings edit cannot mix two policies in one order.
type BusinessSettings struct {
	ID int `gorm:"column:id;primaryKey"`

	DeliveryServiceEnabled bool            `gorm:"column:delivery_service_enabled;not null;default:false"`
	FreePickupDistanceKm   decimal.Decimal `gorm:"column:free_pickup_distance_km;type:numeric(8,2);not null;default:0"`
	PickupFeeRupiah        int             `gorm:"column:pickup_fee_rupiah;not null;default:0"`
	FreeDropoffDistanceKm  decimal.Decimal `gorm:"column:free_dropoff_distance_km;type:numeric(8,2);not null;default:0"`
	DropoffFeeRupiah       int             `gorm:"column:dropoff_fee_rupiah;not null;default:0"`

	LoyaltyScheme          enums.LoyaltyScheme `gorm:"column:loyalty_scheme;not null;default:'disabled'"`
	RupiahPerPointEarned   int                 `gorm:"column:rupiah_per_point_earned;not null;default:0"`
	KgPerPoint             decimal.Decimal     `gorm:"column:kg_per_point;type:numeric(8,2);not null;default:0"`
	PointsPerKg            int                 `gorm:"column:points_per_kg;not null;default:0"`
	PointsPerVisit         int                 `gorm:"column:points_per_visit;not null;default:0"`
	RupiahPerPointRedeemed int                 `gorm:"column:rupiah_per_point_redeemed;not null;default:0"`
	MinPointsToRedeem      int                 `gorm:"column:min_points_to_redeem;not null;default:0"`

	MembershipFeeRequired bool `gorm:"column:membership_fee_required;not null;default:false"`
	MembershipFeeRupiah   int  `gorm:"column:membership_fee_rupiah;not null;default:0"`

	MerchandiseBonusEnabled bool `gorm:"column:merchandise_bonus_enabled;not null;default:false"`
	MerchandiseBonusPoints  int  `gorm:"column:merchandise_bonus_points;not null;default:0"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
