package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/internal/delivery"
	"github.com/dwiprasetya/laundrypos-backend/internal/loyalty"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

// PolicySnapshot is the immutable view of the settings row handed to the
// pricing engine. One snapshot is taken per quote so a concurrent settings
// edit cannot mix two policies inside a single order.
type PolicySnapshot struct {
	Delivery delivery.Policy
	Loyalty  loyalty.Policy
}

// Service exposes the owner-tunable business policy.
type Service interface {
	Snapshot(ctx context.Context) (*PolicySnapshot, error)
	Get(ctx context.Context) (*models.BusinessSettings, error)
	Update(ctx context.Context, input UpdateInput) (*models.BusinessSettings, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// Snapshot loads the settings row and freezes it into engine policies.
func (s *service) Snapshot(ctx context.Context) (*PolicySnapshot, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "business settings row is missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading business settings")
	}
	return snapshotFromModel(row), nil
}

func (s *service) Get(ctx context.Context) (*models.BusinessSettings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "business settings row is missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading business settings")
	}
	return row, nil
}

// UpdateInput carries the full settings payload. The update replaces the row
// wholesale; partial edits are a client concern.
type UpdateInput struct {
	DeliveryServiceEnabled bool
	FreePickupDistanceKm   decimal.Decimal
	PickupFeeRupiah        int
	FreeDropoffDistanceKm  decimal.Decimal
	DropoffFeeRupiah       int

	LoyaltyScheme          enums.LoyaltyScheme
	RupiahPerPointEarned   int
	KgPerPoint             decimal.Decimal
	PointsPerKg            int
	PointsPerVisit         int
	RupiahPerPointRedeemed int
	MinPointsToRedeem      int

	MembershipFeeRequired bool
	MembershipFeeRupiah   int

	MerchandiseBonusEnabled bool
	MerchandiseBonusPoints  int
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.BusinessSettings, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	row := &models.BusinessSettings{
		DeliveryServiceEnabled:  input.DeliveryServiceEnabled,
		FreePickupDistanceKm:    input.FreePickupDistanceKm,
		PickupFeeRupiah:         input.PickupFeeRupiah,
		FreeDropoffDistanceKm:   input.FreeDropoffDistanceKm,
		DropoffFeeRupiah:        input.DropoffFeeRupiah,
		LoyaltyScheme:           input.LoyaltyScheme,
		RupiahPerPointEarned:    input.RupiahPerPointEarned,
		KgPerPoint:              input.KgPerPoint,
		PointsPerKg:             input.PointsPerKg,
		PointsPerVisit:          input.PointsPerVisit,
		RupiahPerPointRedeemed:  input.RupiahPerPointRedeemed,
		MinPointsToRedeem:       input.MinPointsToRedeem,
		MembershipFeeRequired:   input.MembershipFeeRequired,
		MembershipFeeRupiah:     input.MembershipFeeRupiah,
		MerchandiseBonusEnabled: input.MerchandiseBonusEnabled,
		MerchandiseBonusPoints:  input.MerchandiseBonusPoints,
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating business settings")
	}
	return row, nil
}

func validateUpdate(input UpdateInput) error {
	if !input.LoyaltyScheme.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown loyalty scheme").
			WithDetails(map[string]any{"scheme": string(input.LoyaltyScheme)})
	}
	if input.PickupFeeRupiah < 0 || input.DropoffFeeRupiah < 0 || input.MembershipFeeRupiah < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "fees must be non-negative")
	}
	if input.FreePickupDistanceKm.IsNegative() || input.FreeDropoffDistanceKm.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "free distances must be non-negative")
	}
	if input.RupiahPerPointEarned < 0 || input.PointsPerKg < 0 || input.PointsPerVisit < 0 ||
		input.RupiahPerPointRedeemed < 0 || input.MinPointsToRedeem < 0 || input.MerchandiseBonusPoints < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "loyalty quantities must be non-negative")
	}
	if input.KgPerPoint.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "kg per point must be non-negative")
	}

	switch input.LoyaltyScheme {
	case enums.LoyaltySchemePerSpendAmount:
		if input.RupiahPerPointEarned <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "per-spend scheme requires rupiah per point")
		}
	case enums.LoyaltySchemePerWeight:
		if input.KgPerPoint.LessThanOrEqual(decimal.Zero) || input.PointsPerKg <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "per-weight scheme requires kg per point and points per kg")
		}
	case enums.LoyaltySchemePerVisit:
		if input.PointsPerVisit <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "per-visit scheme requires points per visit")
		}
	}
	return nil
}

func snapshotFromModel(row *models.BusinessSettings) *PolicySnapshot {
	return &PolicySnapshot{
		Delivery: delivery.Policy{
			Enabled:               row.DeliveryServiceEnabled,
			FreePickupDistanceKm:  row.FreePickupDistanceKm,
			PickupFeeRupiah:       row.PickupFeeRupiah,
			FreeDropoffDistanceKm: row.FreeDropoffDistanceKm,
			DropoffFeeRupiah:      row.DropoffFeeRupiah,
		},
		Loyalty: loyalty.Policy{
			Scheme:                  row.LoyaltyScheme,
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
		},
	}
}
