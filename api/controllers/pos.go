package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwiprasetya/laundrypos-backend/api/middleware"
	"github.com/dwiprasetya/laundrypos-backend/api/responses"
	"github.com/dwiprasetya/laundrypos-backend/api/validators"
	"github.com/dwiprasetya/laundrypos-backend/internal/orders"
	"github.com/dwiprasetya/laundrypos-backend/internal/pos"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
)

type cartItemRequest struct {
	PackageID uuid.UUID `json:"package_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type quoteRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" validate:"required"`
	Items      []cartItemRequest `json:"items" validate:"required,min=1,dive"`

	DeliveryMode string          `json:"delivery_mode" validate:"required"`
	DistanceKm   decimal.Decimal `json:"distance_km"`

	RedeemPoints       int             `json:"redeem_points" validate:"min=0"`
	UpgradeMembership  bool            `json:"upgrade_membership"`
	TotalWeightKg      decimal.Decimal `json:"total_weight_kg"`
	BroughtMerchandise bool            `json:"brought_merchandise"`
}

type checkoutRequest struct {
	quoteRequest

	OutletID      uuid.UUID `json:"outlet_id"`
	PaymentStatus string    `json:"payment_status" validate:"required"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes"`
}

type checkoutResponse struct {
	Order    orderView `json:"order"`
	Replayed bool      `json:"replayed"`
}

// POSQuote prices a cart without persisting anything.
func POSQuote(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}

		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParseDeliveryMode(body.DeliveryMode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery mode"))
			return
		}

		input := pos.QuoteInput{
			CustomerID:         body.CustomerID,
			Items:              toQuoteItems(body.Items),
			DeliveryMode:       mode,
			DistanceKm:         body.DistanceKm,
			RedeemPoints:       body.RedeemPoints,
			UpgradeMembership:  body.UpgradeMembership,
			TotalWeightKg:      body.TotalWeightKg,
			BroughtMerchandise: body.BroughtMerchandise,
		}

		result, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// POSCheckout commits the cart as an order. The cashier identity comes from
// the access token; a cashier's outlet binding overrides any outlet in the
// body so staff cannot sell on behalf of another branch.
func POSCheckout(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cashierID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing cashier identity"))
			return
		}

		outletID := body.OutletID
		if bound := middleware.OutletIDFromContext(r.Context()); bound != "" {
			parsed, parseErr := uuid.Parse(bound)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid outlet claim"))
				return
			}
			outletID = parsed
		}
		if outletID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "outlet is required"))
			return
		}

		mode, err := enums.ParseDeliveryMode(body.DeliveryMode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery mode"))
			return
		}

		status, err := enums.ParsePaymentStatus(body.PaymentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		var method *enums.PaymentMethod
		if body.PaymentMethod != "" {
			parsed, parseErr := enums.ParsePaymentMethod(body.PaymentMethod)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid payment method"))
				return
			}
			method = &parsed
		}

		input := orders.CommitInput{
			OutletID:           outletID,
			CashierID:          cashierID,
			CustomerID:         body.CustomerID,
			Items:              toCommitItems(body.Items),
			DeliveryMode:       mode,
			DistanceKm:         body.DistanceKm,
			RedeemPoints:       body.RedeemPoints,
			UpgradeMembership:  body.UpgradeMembership,
			TotalWeightKg:      body.TotalWeightKg,
			BroughtMerchandise: body.BroughtMerchandise,
			PaymentStatus:      status,
			PaymentMethod:      method,
			Notes:              body.Notes,
			IdempotencyKey:     strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		}

		result, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		httpStatus := http.StatusCreated
		if result.Replayed {
			httpStatus = http.StatusOK
		}
		responses.WriteSuccessStatus(w, httpStatus, checkoutResponse{
			Order:    newOrderView(result.Order),
			Replayed: result.Replayed,
		})
	}
}

func toQuoteItems(items []cartItemRequest) []pos.QuoteItem {
	out := make([]pos.QuoteItem, 0, len(items))
	for _, item := range items {
		out = append(out, pos.QuoteItem{PackageID: item.PackageID, Quantity: item.Quantity})
	}
	return out
}

func toCommitItems(items []cartItemRequest) []orders.CommitItem {
	out := make([]orders.CommitItem, 0, len(items))
	for _, item := range items {
		out = append(out, orders.CommitItem{PackageID: item.PackageID, Quantity: item.Quantity})
	}
	return out
}
