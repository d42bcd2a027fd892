package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
)

// Repository loads and maintains the service catalog.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive loads active categories with their active services and packages,
// ordered for the POS screen.
func (r *Repository) ListActive(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Preload("Services", "is_active = ?", true).
		Preload("Services.Packages", "is_active = ?", true).
		Find(&categories).Error
	return categories, err
}

func (r *Repository) GetPackage(ctx context.Context, id uuid.UUID) (*models.ServicePackage, error) {
	var pkg models.ServicePackage
	if err := r.db.WithContext(ctx).First(&pkg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *Repository) GetPackages(ctx context.Context, ids []uuid.UUID) ([]models.ServicePackage, error) {
	var pkgs []models.ServicePackage
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pkgs).Error
	return pkgs, err
}

func (r *Repository) CreateCategory(ctx context.Context, row *models.ServiceCategory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) CreateService(ctx context.Context, row *models.LaundryService) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) CreatePackage(ctx context.Context, row *models.ServicePackage) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdatePackage(ctx context.Context, row *models.ServicePackage) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// DeactivatePackage soft-disables a package so existing orders keep their
// snapshot while new carts can no longer select it.
func (r *Repository) DeactivatePackage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ServicePackage{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
