package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/types"
)

// View structs keep the wire shape independent of the gorm models so schema
// columns never leak into responses by accident.

type outletView struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Address  string    `json:"address,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	IsActive bool      `json:"is_active"`
}

func newOutletView(row *models.Outlet) outletView {
	return outletView{
		ID:       row.ID,
		Code:     row.Code,
		Name:     row.Name,
		Address:  row.Address,
		Phone:    row.Phone,
		IsActive: row.IsActive,
	}
}

type userView struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	OutletID *uuid.UUID `json:"outlet_id,omitempty"`
	IsActive bool       `json:"is_active"`
}

func newUserView(row *models.User) userView {
	return userView{
		ID:       row.ID,
		Name:     row.Name,
		Email:    row.Email,
		Role:     string(row.Role),
		OutletID: row.OutletID,
		IsActive: row.IsActive,
	}
}

type customerView struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	Address       *types.Address `json:"address,omitempty"`
	LoyaltyPoints int            `json:"loyalty_points"`
	IsPaidMember  bool           `json:"is_paid_member"`
	IsActive      bool           `json:"is_active"`
}

func newCustomerView(row *models.Customer) customerView {
	return customerView{
		ID:            row.ID,
		Name:          row.Name,
		Phone:         row.Phone,
		Address:       row.Address,
		LoyaltyPoints: row.LoyaltyPoints,
		IsPaidMember:  row.IsPaidMember,
		IsActive:      row.IsActive,
	}
}

type packageView struct {
	ID               uuid.UUID `json:"id"`
	ServiceID        uuid.UUID `json:"service_id"`
	Name             string    `json:"name"`
	UnitPriceRupiah  int       `json:"unit_price_rupiah"`
	Unit             string    `json:"unit"`
	MinOrderQuantity int       `json:"min_order_quantity"`
	IsActive         bool      `json:"is_active"`
}

func newPackageView(row *models.ServicePackage) packageView {
	return packageView{
		ID:               row.ID,
		ServiceID:        row.ServiceID,
		Name:             row.Name,
		UnitPriceRupiah:  row.UnitPriceRupiah,
		Unit:             row.Unit,
		MinOrderQuantity: row.MinOrderQuantity,
		IsActive:         row.IsActive,
	}
}

type orderItemView struct {
	PackageID       uuid.UUID `json:"package_id"`
	PackageName     string    `json:"package_name"`
	Unit            string    `json:"unit"`
	UnitPriceRupiah int       `json:"unit_price_rupiah"`
	Quantity        int       `json:"quantity"`
	SubtotalRupiah  int       `json:"subtotal_rupiah"`
}

type orderView struct {
	ID          uuid.UUID `json:"id"`
	InvoiceCode string    `json:"invoice_code"`
	OutletID    uuid.UUID `json:"outlet_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	CashierID   uuid.UUID `json:"cashier_id"`

	SubtotalRupiah       int `json:"subtotal_rupiah"`
	DeliveryFeeRupiah    int `json:"delivery_fee_rupiah"`
	MembershipFeeRupiah  int `json:"membership_fee_rupiah"`
	RedeemDiscountRupiah int `json:"redeem_discount_rupiah"`
	GrandTotalRupiah     int `json:"grand_total_rupiah"`

	PointsRedeemed    int  `json:"points_redeemed"`
	PointsEarned      int  `json:"points_earned"`
	MembershipGranted bool `json:"membership_granted"`

	DeliveryMode  string          `json:"delivery_mode"`
	DistanceKm    decimal.Decimal `json:"distance_km"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`

	PaymentStatus string     `json:"payment_status"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	Stage       string          `json:"stage"`
	ServiceTags []string        `json:"service_tags,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Items       []orderItemView `json:"items"`

	CreatedAt time.Time `json:"created_at"`
}

func newOrderView(row *models.Order) orderView {
	view := orderView{
		ID:                   row.ID,
		InvoiceCode:          row.InvoiceCode,
		OutletID:             row.OutletID,
		CustomerID:           row.CustomerID,
		CashierID:            row.CashierID,
		SubtotalRupiah:       row.SubtotalRupiah,
		DeliveryFeeRupiah:    row.DeliveryFeeRupiah,
		MembershipFeeRupiah:  row.MembershipFeeRupiah,
		RedeemDiscountRupiah: row.RedeemDiscountRupiah,
		GrandTotalRupiah:     row.GrandTotalRupiah,
		PointsRedeemed:       row.PointsRedeemed,
		PointsEarned:         row.PointsEarned,
		MembershipGranted:    row.MembershipGranted,
		DeliveryMode:         string(row.DeliveryMode),
		DistanceKm:           row.DistanceKm,
		TotalWeightKg:        row.TotalWeightKg,
		PaymentStatus:        string(row.PaymentStatus),
		PaidAt:               row.PaidAt,
		Stage:                string(row.Stage),
		ServiceTags:          row.ServiceTags,
		Notes:                row.Notes,
		CreatedAt:            row.CreatedAt,
	}
	if row.PaymentMethod != nil {
		method := string(*row.PaymentMethod)
		view.PaymentMethod = &method
	}
	view.Items = make([]orderItemView, 0, len(row.Items))
	for _, item := range row.Items {
		view.Items = append(view.Items, orderItemView{
			PackageID:       item.PackageID,
			PackageName:     item.PackageName,
			Unit:            item.Unit,
			UnitPriceRupiah: item.UnitPriceRupiah,
			Quantity:        item.Quantity,
			SubtotalRupiah:  item.SubtotalRupiah,
		})
	}
	return view
}

type stageLogView struct {
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	ChangedBy uuid.UUID `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

func newStageLogViews(rows []models.OrderStageLog) []stageLogView {
	views := make([]stageLogView, 0, len(rows))
	for _, row := range rows {
		views = append(views, stageLogView{
			FromStage: string(row.FromStage),
			ToStage:   string(row.ToStage),
			ChangedBy: row.ChangedBy,
			CreatedAt: row.CreatedAt,
		})
	}
	return views
}

type settingsView struct {
	DeliveryServiceEnabled bool            `json:"delivery_service_enabled"`
	FreePickupDistanceKm   decimal.Decimal `json:"free_pickup_distance_km"`
	PickupFeeRupiah        int             `json:"pickup_fee_rupiah"`
	FreeDropoffDistanceKm  decimal.Decimal `json:"free_dropoff_distance_km"`
	DropoffFeeRupiah       int             `json:"dropoff_fee_rupiah"`

	LoyaltyScheme          string          `json:"loyalty_scheme"`
	RupiahPerPointEarned   int             `json:"rupiah_per_point_earned"`
	KgPerPoint             decimal.Decimal `json:"kg_per_point"`
	PointsPerKg            int             `json:"points_per_kg"`
	PointsPerVisit         int             `json:"points_per_visit"`
	RupiahPerPointRedeemed int             `json:"rupiah_per_point_redeemed"`
	MinPointsToRedeem      int             `json:"min_points_to_redeem"`

	MembershipFeeRequired bool `json:"membership_fee_required"`
	MembershipFeeRupiah   int  `json:"membership_fee_rupiah"`

	MerchandiseBonusEnabled bool `json:"merchandise_bonus_enabled"`
	MerchandiseBonusPoints  int  `json:"merchandise_bonus_points"`

	UpdatedAt time.Time `json:"updated_at"`
}

func newSettingsView(row *models.BusinessSettings) settingsView {
	return settingsView{
		DeliveryServiceEnabled:  row.DeliveryServiceEnabled,
		FreePickupDistanceKm:    row.FreePickupDistanceKm,
		PickupFeeRupiah:         row.PickupFeeRupiah,
		FreeDropoffDistanceKm:   row.FreeDropoffDistanceKm,
		DropoffFeeRupiah:        row.DropoffFeeRupiah,
		LoyaltyScheme:           string(row.LoyaltyScheme),
		RupiahPerPointEarned:    row.RupiahPerPointEarned,
		KgPerPoint:              row.KgPerPoint,
		PointsPerKg:             row.PointsPerKg,
		PointsPerVisit:          row.PointsPerVisit,
		RupiahPerPointRedeemed:  row.RupiahPerPointRedeemed,
		MinPointsToRedeem:       row.MinPointsToRedeem,
		MembershipFeeRequired:   row.MembershipFeeRequired,
		MembershipFeeRupiah:     row.MembershipFeeRupiah,
		MerchandiseBonusEnabled: row.MerchandiseBonusEnabled,
		MerchandiseBonusPoints:  row.MerchandiseBonusPoints,
		UpdatedAt:               row.UpdatedAt,
	}
}
