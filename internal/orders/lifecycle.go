package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/outbox"
	"github.com/dwiprasetya/laundrypos-backend/pkg/pagination"
)

type orderStagedEvent struct {
	InvoiceCode string `json:"invoice_code"`
	FromStage   string `json:"from_stage"`
	ToStage     string `json:"to_stage"`
}

type orderSettledEvent struct {
	InvoiceCode      string `json:"invoice_code"`
	PaymentMethod    string `json:"payment_method"`
	GrandTotalRupiah int    `json:"grand_total_rupiah"`
}

// AdvanceStage moves the order forward through the processing pipeline.
// Transitions only go forward; skipping stages is allowed, going back is not.
func (s *service) AdvanceStage(ctx context.Context, orderID uuid.UUID, to enums.ProcessStage, changedBy uuid.UUID) (*models.Order, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown process stage")
	}
	if changedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "locking order")
		}

		from := order.Stage
		if !from.CanTransitionTo(to) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "stage transition not allowed").
				WithDetails(map[string]any{"from": string(from), "to": string(to)})
		}

		order.Stage = to
		if err := s.repo.UpdateTx(tx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order stage")
		}
		if err := s.repo.AppendStageLogTx(tx, &models.OrderStageLog{
			OrderID:   order.ID,
			FromStage: from,
			ToStage:   to,
			ChangedBy: changedBy,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "logging stage transition")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStaged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: changedBy},
			Version:       1,
			Data: orderStagedEvent{
				InvoiceCode: order.InvoiceCode,
				FromStage:   string(from),
				ToStage:     string(to),
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queueing stage event")
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Settle marks an unpaid order as paid. Paid orders cannot settle twice.
func (s *service) Settle(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod, changedBy uuid.UUID) (*models.Order, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if changedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.GetByIDForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "locking order")
		}
		if order.PaymentStatus == enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
		}

		now := time.Now()
		order.PaymentStatus = enums.PaymentStatusPaid
		order.PaymentMethod = &method
		order.PaidAt = &now
		if err := s.repo.UpdateTx(tx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settling order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderSettled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: changedBy},
			Version:       1,
			Data: orderSettledEvent{
				InvoiceCode:      order.InvoiceCode,
				PaymentMethod:    string(method),
				GrandTotalRupiah: order.GrandTotalRupiah,
			},
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queueing settlement event")
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return row, nil
}

func (s *service) GetByInvoiceCode(ctx context.Context, invoiceCode string) (*models.Order, error) {
	row, err := s.repo.GetByInvoiceCode(ctx, invoiceCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return row, nil
}

// FindByIdempotencyKey lets a client that timed out on checkout ask whether
// its commit actually landed before resubmitting.
func (s *service) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is required")
	}
	row, err := s.repo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up idempotency key")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order for idempotency key")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error) {
	rows, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) StageLogs(ctx context.Context, orderID uuid.UUID) ([]models.OrderStageLog, error) {
	rows, err := s.repo.StageLogs(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading stage logs")
	}
	return rows, nil
}
