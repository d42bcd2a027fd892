package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/types"
)

const searchLimit = 20

// Service manages the shared customer directory. Loyalty balances are read
// here but only ever mutated by the order commit.
type Service interface {
	Search(ctx context.Context, query string) ([]models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Create(ctx context.Context, input CreateInput) (*models.Customer, error)
	Reactivate(ctx context.Context, id uuid.UUID, input CreateInput) (*models.Customer, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	UpdateAddress(ctx context.Context, id uuid.UUID, address types.Address) (*models.Customer, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Search(ctx context.Context, query string) ([]models.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	rows, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "searching customers")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}
	return row, nil
}

// CreateInput is the payload for registering or reactivating a customer.
type CreateInput struct {
	Name    string
	Phone   string
	Address *types.Address
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	// a previously deactivated customer keeps their phone number; steer
	// the caller to reactivation so the loyalty balance survives
	existing, err := s.repo.GetByPhone(ctx, input.Phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking phone uniqueness")
	}
	if existing != nil {
		if existing.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number is already registered").
				WithDetails(map[string]any{"customer_id": existing.ID.String()})
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer exists but is deactivated").
			WithDetails(map[string]any{"customer_id": existing.ID.String()})
	}

	row := &models.Customer{
		ID:       uuid.New(),
		Name:     input.Name,
		Phone:    input.Phone,
		Address:  input.Address,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating customer")
	}
	return row, nil
}

// Reactivate re-enables a deactivated customer, refreshing their contact
// fields while preserving the loyalty balance and membership flag.
func (s *service) Reactivate(ctx context.Context, id uuid.UUID, input CreateInput) (*models.Customer, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer is already active")
	}

	row.Name = input.Name
	row.Phone = input.Phone
	if input.Address != nil {
		row.Address = input.Address
	}
	row.IsActive = true
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reactivating customer")
	}
	return row, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !row.IsActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "customer is already deactivated")
	}
	row.IsActive = false
	if err := s.repo.Update(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating customer")
	}
	return nil
}

func (s *service) UpdateAddress(ctx context.Context, id uuid.UUID, address types.Address) (*models.Customer, error) {
	if address.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row.Address = &address
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating customer address")
	}
	return row, nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	return nil
}
