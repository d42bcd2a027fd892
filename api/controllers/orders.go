package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dwiprasetya/laundrypos-backend/api/middleware"
	"github.com/dwiprasetya/laundrypos-backend/api/responses"
	"github.com/dwiprasetya/laundrypos-backend/api/validators"
	"github.com/dwiprasetya/laundrypos-backend/internal/orders"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
	"github.com/dwiprasetya/laundrypos-backend/pkg/pagination"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

type stageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type settleRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type orderListResponse struct {
	Orders     []orderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// OrderList serves the order queue with optional outlet, customer, stage,
// payment status, and date filters.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filter, err := parseOrderFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultOrderPageSize, 1, maxOrderPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		rows, nextCursor, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]orderView, 0, len(rows))
		for i := range rows {
			views = append(views, newOrderView(&rows[i]))
		}
		responses.WriteSuccess(w, orderListResponse{Orders: views, NextCursor: nextCursor})
	}
}

// OrderDetail returns a single order by id, or by invoice code when the
// path segment is not a UUID.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		row, err := loadOrder(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(row))
	}
}

// OrderStageLogs returns the audit trail of stage transitions.
func OrderStageLogs(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.StageLogs(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"logs": newStageLogViews(rows)})
	}
}

// OrderAdvanceStage moves an order forward through processing.
func OrderAdvanceStage(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stage, err := enums.ParseProcessStage(body.Stage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stage"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.AdvanceStage(r.Context(), orderID, stage, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(row))
	}
}

// OrderSettle records payment on an unpaid order.
func OrderSettle(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body settleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Settle(r.Context(), orderID, method, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(row))
	}
}

func loadOrder(r *http.Request, svc orders.Service) (*models.Order, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if id, parseErr := uuid.Parse(raw); parseErr == nil {
		return svc.GetByID(r.Context(), id)
	}
	return svc.GetByInvoiceCode(r.Context(), raw)
}

func parseOrderFilter(r *http.Request) (orders.ListFilter, error) {
	var filter orders.ListFilter

	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("outlet_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid outlet_id filter")
		}
		filter.OutletID = id
	}
	if raw := strings.TrimSpace(query.Get("customer_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer_id filter")
		}
		filter.CustomerID = id
	}
	if raw := strings.TrimSpace(query.Get("stage")); raw != "" {
		stage, err := enums.ParseProcessStage(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stage filter")
		}
		filter.Stage = stage
	}
	if raw := strings.TrimSpace(query.Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status filter")
		}
		filter.PaymentStatus = status
	}

	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return filter, err
	}
	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return filter, err
	}
	filter.From = from
	filter.To = to

	// cashiers only see their own outlet
	if bound := middleware.OutletIDFromContext(r.Context()); bound != "" {
		if id, parseErr := uuid.Parse(bound); parseErr == nil {
			filter.OutletID = id
		}
	}

	return filter, nil
}

func actorFromContext(r *http.Request) (uuid.UUID, error) {
	actorID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing staff identity")
	}
	return actorID, nil
}
