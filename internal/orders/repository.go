package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	"github.com/dwiprasetya/laundrypos-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InsertTx(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(order).Error
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByIDForUpdate locks the order row for the enclosing transaction.
// SQLite (tests) has no FOR UPDATE; its transactions serialize writers anyway.
func (r *Repository) GetByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.Order
	if err := tx.First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetByInvoiceCode(ctx context.Context, invoiceCode string) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "invoice_code = ?", invoiceCode).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByIdempotencyKey returns nil when no order carries the key.
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "idempotency_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListFilter narrows the order listing. Zero values mean "no filter".
type ListFilter struct {
	OutletID      uuid.UUID
	CustomerID    uuid.UUID
	Stage         enums.ProcessStage
	PaymentStatus enums.PaymentStatus
	From          time.Time
	To            time.Time
}

// List returns orders newest first with cursor pagination.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items")

	if filter.OutletID != uuid.Nil {
		q = q.Where("outlet_id = ?", filter.OutletID)
	}
	if filter.CustomerID != uuid.Nil {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Stage != "" {
		q = q.Where("stage = ?", filter.Stage)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) UpdateTx(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Save(order).Error
}

func (r *Repository) AppendStageLogTx(tx *gorm.DB, log *models.OrderStageLog) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(log).Error
}

func (r *Repository) StageLogs(ctx context.Context, orderID uuid.UUID) ([]models.OrderStageLog, error) {
	var rows []models.OrderStageLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
