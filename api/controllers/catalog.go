package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dwiprasetya/laundrypos-backend/api/responses"
	"github.com/dwiprasetya/laundrypos-backend/api/validators"
	"github.com/dwiprasetya/laundrypos-backend/internal/catalog"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
)

type categoryRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

type serviceRequest struct {
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	Name       string    `json:"name" validate:"required,max=120"`
}

type packageRequest struct {
	ServiceID        uuid.UUID `json:"service_id" validate:"required"`
	Name             string    `json:"name" validate:"required,max=120"`
	UnitPriceRupiah  int       `json:"unit_price_rupiah" validate:"required,min=1"`
	Unit             string    `json:"unit" validate:"required,max=16"`
	MinOrderQuantity int       `json:"min_order_quantity" validate:"min=0"`
}

// CatalogIndex serves the active category > service > package tree the POS
// screen renders.
func CatalogIndex(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		index, err := svc.BuildIndex(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, index)
	}
}

func CategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body categoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.CreateCategory(r.Context(), body.Name, body.SortOrder)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":         row.ID,
			"name":       row.Name,
			"sort_order": row.SortOrder,
		})
	}
}

func ServiceCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body serviceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.CreateService(r.Context(), body.CategoryID, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":          row.ID,
			"category_id": row.CategoryID,
			"name":        row.Name,
		})
	}
}

func PackageCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body packageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.CreatePackage(r.Context(), catalog.PackageInput{
			ServiceID:        body.ServiceID,
			Name:             body.Name,
			UnitPriceRupiah:  body.UnitPriceRupiah,
			Unit:             body.Unit,
			MinOrderQuantity: body.MinOrderQuantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newPackageView(row))
	}
}

func PackageUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "packageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body packageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.UpdatePackage(r.Context(), id, catalog.PackageInput{
			ServiceID:        body.ServiceID,
			Name:             body.Name,
			UnitPriceRupiah:  body.UnitPriceRupiah,
			Unit:             body.Unit,
			MinOrderQuantity: body.MinOrderQuantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPackageView(row))
	}
}

func PackageDeactivate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "packageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivatePackage(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
