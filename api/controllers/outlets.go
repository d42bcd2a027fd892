package controllers

import (
	"net/http"

	"github.com/dwiprasetya/laundrypos-backend/api/responses"
	"github.com/dwiprasetya/laundrypos-backend/api/validators"
	"github.com/dwiprasetya/laundrypos-backend/internal/outlets"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
)

type outletRequest struct {
	Code    string `json:"code" validate:"required,max=8"`
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=32"`
}

func OutletList(svc outlets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "outlets service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]outletView, 0, len(rows))
		for i := range rows {
			views = append(views, newOutletView(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{"outlets": views})
	}
}

func OutletDetail(svc outlets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "outlets service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "outletID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOutletView(row))
	}
}

func OutletCreate(svc outlets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "outlets service unavailable"))
			return
		}

		var body outletRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), outlets.CreateInput{
			Code:    body.Code,
			Name:    body.Name,
			Address: body.Address,
			Phone:   body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOutletView(row))
	}
}

func OutletDeactivate(svc outlets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "outlets service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "outletID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
