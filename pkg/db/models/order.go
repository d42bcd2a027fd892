package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

// Order is an immutable financial record written once at checkout. Pricing
// columns are the frozen output of the quote that the cashier confirmed;
// they are never recomputed after commit.
type Order struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceCode    string    `gorm:"column:invoice_code;uniqueIndex;not null"`
	IdempotencyKey *string   `gorm:"column:idempotency_key;uniqueIndex"`

	OutletID   uuid.UUID `gorm:"column:outlet_id;type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	CashierID  uuid.UUID `gorm:"column:cashier_id;type:uuid;not null"`

	SubtotalRupiah       int `gorm:"column:subtotal_rupiah;not null"`
	DeliveryFeeRupiah    int `gorm:"column:delivery_fee_rupiah;not null"`
	MembershipFeeRupiah  int `gorm:"column:membership_fee_rupiah;not null"`
	RedeemDiscountRupiah int `gorm:"column:redeem_discount_rupiah;not null"`
	GrandTotalRupiah     int `gorm:"column:grand_total_rupiah;not null"`

	PointsRedeemed    int  `gorm:"column:points_redeemed;not null"`
	PointsEarned      int  `gorm:"column:points_earned;not null"`
	MembershipGranted bool `gorm:"column:membership_granted;not null;default:false"`

	DeliveryMode  enums.DeliveryMode `gorm:"column:delivery_mode;not null"`
	DistanceKm    decimal.Decimal    `gorm:"column:distance_km;type:numeric(8,2);not null"`
	TotalWeightKg decimal.Decimal    `gorm:"column:total_weight_kg;type:numeric(8,2);not null"`

	PaymentStatus enums.PaymentStatus  `gorm:"column:payment_status;not null;index"`
	PaymentMethod *enums.PaymentMethod `gorm:"column:payment_method"`
	PaidAt        *time.Time           `gorm:"column:paid_at"`

	Stage       enums.ProcessStage `gorm:"column:stage;not null;index"`
	ServiceTags pq.StringArray     `gorm:"column:service_tags;type:text[]"`
	Notes       string             `gorm:"column:notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots the package name and unit price at the moment of sale
// so later catalog edits never rewrite history.
type OrderItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	PackageID       uuid.UUID `gorm:"column:package_id;type:uuid;not null"`
	PackageName     string    `gorm:"column:package_name;not null"`
	Unit            string    `gorm:"column:unit;not null"`
	UnitPriceRupiah int       `gorm:"column:unit_price_rupiah;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
	SubtotalRupiah  int       `gorm:"column:subtotal_rupiah;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// OrderStageLog records each processing stage transition for auditing.
type OrderStageLog struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	FromStage enums.ProcessStage `gorm:"column:from_stage;not null"`
	ToStage   enums.ProcessStage `gorm:"column:to_stage;not null"`
	ChangedBy uuid.UUID          `gorm:"column:changed_by;type:uuid;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
