package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/api/responses"
	"github.com/dwiprasetya/laundrypos-backend/api/validators"
	"github.com/dwiprasetya/laundrypos-backend/internal/settings"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
)

type settingsRequest struct {
	DeliveryServiceEnabled bool            `json:"delivery_service_enabled"`
	FreePickupDistanceKm   decimal.Decimal `json:"free_pickup_distance_km"`
	PickupFeeRupiah        int             `json:"pickup_fee_rupiah" validate:"min=0"`
	FreeDropoffDistanceKm  decimal.Decimal `json:"free_dropoff_distance_km"`
	DropoffFeeRupiah       int             `json:"dropoff_fee_rupiah" validate:"min=0"`

	LoyaltyScheme          string          `json:"loyalty_scheme" validate:"required"`
	RupiahPerPointEarned   int             `json:"rupiah_per_point_earned" validate:"min=0"`
	KgPerPoint             decimal.Decimal `json:"kg_per_point"`
	PointsPerKg            int             `json:"points_per_kg" validate:"min=0"`
	PointsPerVisit         int             `json:"points_per_visit" validate:"min=0"`
	RupiahPerPointRedeemed int             `json:"rupiah_per_point_redeemed" validate:"min=0"`
	MinPointsToRedeem      int             `json:"min_points_to_redeem" validate:"min=0"`

	MembershipFeeRequired bool `json:"membership_fee_required"`
	MembershipFeeRupiah   int  `json:"membership_fee_rupiah" validate:"min=0"`

	MerchandiseBonusEnabled bool `json:"merchandise_bonus_enabled"`
	MerchandiseBonusPoints  int  `json:"merchandise_bonus_points" validate:"min=0"`
}

func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		row, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSettingsView(row))
	}
}

// SettingsUpdate replaces the whole policy row. Orders already committed
// keep their frozen pricing; only future quotes see the change.
func SettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var body settingsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scheme, err := enums.ParseLoyaltyScheme(body.LoyaltyScheme)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid loyalty scheme"))
			return
		}

		row, err := svc.Update(r.Context(), settings.UpdateInput{
			DeliveryServiceEnabled:  body.DeliveryServiceEnabled,
			FreePickupDistanceKm:    body.FreePickupDistanceKm,
			PickupFeeRupiah:         body.PickupFeeRupiah,
			FreeDropoffDistanceKm:   body.FreeDropoffDistanceKm,
			DropoffFeeRupiah:        body.DropoffFeeRupiah,
			LoyaltyScheme:           scheme,
			RupiahPerPointEarned:    body.RupiahPerPointEarned,
			KgPerPoint:              body.KgPerPoint,
			PointsPerKg:             body.PointsPerKg,
			PointsPerVisit:          body.PointsPerVisit,
			RupiahPerPointRedeemed:  body.RupiahPerPointRedeemed,
			MinPointsToRedeem:       body.MinPointsToRedeem,
			MembershipFeeRequired:   body.MembershipFeeRequired,
			MembershipFeeRupiah:     body.MembershipFeeRupiah,
			MerchandiseBonusEnabled: body.MerchandiseBonusEnabled,
			MerchandiseBonusPoints:  body.MerchandiseBonusPoints,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSettingsView(row))
	}
}
