package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
)

const singletonID = 1

// Repository reads and writes the single business settings row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context) (*models.BusinessSettings, error) {
	var row models.BusinessSettings
	if err := r.db.WithContext(ctx).First(&row, "id = ?", singletonID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Update(ctx context.Context, row *models.BusinessSettings) error {
	row.ID = singletonID
	return r.db.WithContext(ctx).Save(row).Error
}
