package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var row models.Customer
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByIDForUpdate locks the customer row for the duration of the enclosing
// transaction. Point balance mutations must go through this lock so two
// concurrent redemptions serialize instead of double-spending.
// SQLite (tests) has no FOR UPDATE; its transactions serialize writers anyway.
func (r *Repository) GetByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Customer, error) {
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.Customer
	if err := tx.First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var row models.Customer
	if err := r.db.WithContext(ctx).First(&row, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Search matches active customers by partial name or phone.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	like := "%" + strings.TrimSpace(query) + "%"
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("name LIKE ? OR phone LIKE ?", like, like).
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, row *models.Customer) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) Update(ctx context.Context, row *models.Customer) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// UpdateTx saves the customer inside an existing transaction.
func (r *Repository) UpdateTx(tx *gorm.DB, row *models.Customer) error {
	return tx.Save(row).Error
}
