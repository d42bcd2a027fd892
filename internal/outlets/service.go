package outlets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error) {
	var row models.Outlet
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Outlet, error) {
	var rows []models.Outlet
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, row *models.Outlet) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) Update(ctx context.Context, row *models.Outlet) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Service manages the branch registry.
type Service interface {
	List(ctx context.Context) ([]models.Outlet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error)
	Create(ctx context.Context, input CreateInput) (*models.Outlet, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type CreateInput struct {
	Code    string
	Name    string
	Address string
	Phone   string
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("outlet repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Outlet, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing outlets")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Outlet, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "outlet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading outlet")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Outlet, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" || strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outlet code and name are required")
	}

	row := &models.Outlet{
		ID:       uuid.New(),
		Code:     code,
		Name:     input.Name,
		Address:  input.Address,
		Phone:    input.Phone,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating outlet")
	}
	return row, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !row.IsActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "outlet is already deactivated")
	}
	row.IsActive = false
	if err := s.repo.Update(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating outlet")
	}
	return nil
}
