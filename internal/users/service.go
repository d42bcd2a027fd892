package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/config"
	dbpkg "github.com/dwiprasetya/laundrypos-backend/pkg/db"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/security"
)

const tempPasswordLength = 12

type outletLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error)
}

// Service manages staff accounts. Only owners reach these operations; the
// route middleware enforces that.
type Service interface {
	List(ctx context.Context, outletID uuid.UUID) ([]models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, input CreateInput) (*models.User, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID) (string, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    *Repository
	outlets outletLoader
	pwCfg   config.PasswordConfig
}

func NewService(repo *Repository, outlets outletLoader, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if outlets == nil {
		return nil, fmt.Errorf("outlet loader required")
	}
	return &service{repo: repo, outlets: outlets, pwCfg: pwCfg}, nil
}

type CreateInput struct {
	Name     string
	Email    string
	Role     enums.StaffRole
	OutletID *uuid.UUID
}

type UpdateInput struct {
	Name     string
	OutletID *uuid.UUID
}

func (s *service) List(ctx context.Context, outletID uuid.UUID) ([]models.User, error) {
	rows, err := s.repo.List(ctx, outletID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing staff")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading staff member")
	}
	return row, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading staff member")
	}
	return row, nil
}

// Create provisions a staff account with a generated temporary password.
// The plaintext is returned exactly once for the owner to hand over.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !input.Role.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "unknown staff role")
	}
	if input.Role == enums.StaffRoleCashier && input.OutletID == nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "cashiers must belong to an outlet")
	}
	if input.OutletID != nil {
		outlet, err := s.outlets.GetByID(ctx, *input.OutletID)
		if err != nil {
			return nil, "", err
		}
		if !outlet.IsActive {
			return nil, "", pkgerrors.New(pkgerrors.CodeStateConflict, "outlet is deactivated")
		}
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating temporary password")
	}
	hash, err := security.HashPassword(tempPassword, s.pwCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	row := &models.User{
		ID:           uuid.New(),
		OutletID:     input.OutletID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating staff member")
	}
	return row, tempPassword, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		row.Name = name
	}
	if input.OutletID != nil {
		outlet, err := s.outlets.GetByID(ctx, *input.OutletID)
		if err != nil {
			return nil, err
		}
		if !outlet.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "outlet is deactivated")
		}
		row.OutletID = input.OutletID
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating staff member")
	}
	return row, nil
}

// ResetPassword issues a fresh temporary password, invalidating the old one.
func (s *service) ResetPassword(ctx context.Context, id uuid.UUID) (string, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating temporary password")
	}
	hash, err := security.HashPassword(tempPassword, s.pwCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	row.PasswordHash = hash
	if err := s.repo.Update(ctx, row); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving new password")
	}
	return tempPassword, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !row.IsActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "staff member is already deactivated")
	}
	row.IsActive = false
	if err := s.repo.Update(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating staff member")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
