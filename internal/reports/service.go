package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

// Service answers the owner's reporting questions from committed orders.
// All numbers come from the frozen pricing columns, never from re-pricing.
type Service interface {
	RevenueByOutlet(ctx context.Context, from, to time.Time) ([]OutletRevenueRow, error)
	DailyRevenue(ctx context.Context, outletID uuid.UUID, from, to time.Time) ([]DailyRevenueRow, error)
	StageBacklog(ctx context.Context, outletID uuid.UUID) ([]StageBacklogRow, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

// maxReportRange keeps ad-hoc reporting queries from scanning years of
// orders; BigQuery serves anything longer.
const maxReportRange = 366 * 24 * time.Hour

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date range is required")
	}
	if !to.After(from) {
		return pkgerrors.New(pkgerrors.CodeValidation, "range end must be after range start")
	}
	if to.Sub(from) > maxReportRange {
		return pkgerrors.New(pkgerrors.CodeValidation, "range exceeds one year")
	}
	return nil
}

func (s *service) RevenueByOutlet(ctx context.Context, from, to time.Time) ([]OutletRevenueRow, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	rows, err := s.repo.RevenueByOutlet(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating outlet revenue")
	}
	return rows, nil
}

func (s *service) DailyRevenue(ctx context.Context, outletID uuid.UUID, from, to time.Time) ([]DailyRevenueRow, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	rows, err := s.repo.DailyRevenue(ctx, outletID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating daily revenue")
	}
	return rows, nil
}

func (s *service) StageBacklog(ctx context.Context, outletID uuid.UUID) ([]StageBacklogRow, error) {
	rows, err := s.repo.StageBacklog(ctx, outletID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting stage backlog")
	}
	return rows, nil
}
