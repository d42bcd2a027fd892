package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns staff, optionally narrowed to one outlet.
func (r *Repository) List(ctx context.Context, outletID uuid.UUID) ([]models.User, error) {
	q := r.db.WithContext(ctx)
	if outletID != uuid.Nil {
		q = q.Where("outlet_id = ?", outletID)
	}
	var rows []models.User
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, row *models.User) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) Update(ctx context.Context, row *models.User) error {
	return r.db.WithContext(ctx).Save(row).Error
}
