package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

// OrderFact is one row in the order_facts table: one row per order event,
// append only. Nullable columns are pointers so events that do not carry a
// field write NULL instead of a zero.
type OrderFact struct {
	EventID     string    `bigquery:"event_id"`
	EventType   string    `bigquery:"event_type"`
	OrderID     string    `bigquery:"order_id"`
	InvoiceCode string    `bigquery:"invoice_code"`
	OccurredAt  time.Time `bigquery:"occurred_at"`

	OutletID         *string `bigquery:"outlet_id"`
	CustomerID       *string `bigquery:"customer_id"`
	GrandTotalRupiah *int    `bigquery:"grand_total_rupiah"`
	PointsRedeemed   *int    `bigquery:"points_redeemed"`
	PointsEarned     *int    `bigquery:"points_earned"`
	PaymentStatus    *string `bigquery:"payment_status"`
	PaymentMethod    *string `bigquery:"payment_method"`
	FromStage        *string `bigquery:"from_stage"`
	ToStage          *string `bigquery:"to_stage"`

	InsertedAt time.Time `bigquery:"inserted_at"`
}

type createdPayload struct {
	InvoiceCode      string `json:"invoice_code"`
	OutletID         string `json:"outlet_id"`
	CustomerID       string `json:"customer_id"`
	GrandTotalRupiah int    `json:"grand_total_rupiah"`
	PointsRedeemed   int    `json:"points_redeemed"`
	PointsEarned     int    `json:"points_earned"`
	PaymentStatus    string `json:"payment_status"`
}

type stagedPayload struct {
	InvoiceCode string `json:"invoice_code"`
	FromStage   string `json:"from_stage"`
	ToStage     string `json:"to_stage"`
}

type settledPayload struct {
	InvoiceCode      string `json:"invoice_code"`
	PaymentMethod    string `json:"payment_method"`
	GrandTotalRupiah int    `json:"grand_total_rupiah"`
}

// BuildOrderFact flattens an envelope into the warehouse row shape.
func BuildOrderFact(envelope Envelope) (*OrderFact, error) {
	fact := &OrderFact{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OrderID:    envelope.AggregateID,
		OccurredAt: envelope.OccurredAt,
		InsertedAt: time.Now().UTC(),
	}

	switch envelope.EventType {
	case enums.EventOrderCreated:
		var payload createdPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode order.created payload: %w", err)
		}
		fact.InvoiceCode = payload.InvoiceCode
		fact.OutletID = strPtr(payload.OutletID)
		fact.CustomerID = strPtr(payload.CustomerID)
		fact.GrandTotalRupiah = &payload.GrandTotalRupiah
		fact.PointsRedeemed = &payload.PointsRedeemed
		fact.PointsEarned = &payload.PointsEarned
		fact.PaymentStatus = strPtr(payload.PaymentStatus)
	case enums.EventOrderStaged:
		var payload stagedPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode order.stage_changed payload: %w", err)
		}
		fact.InvoiceCode = payload.InvoiceCode
		fact.FromStage = strPtr(payload.FromStage)
		fact.ToStage = strPtr(payload.ToStage)
	case enums.EventOrderSettled:
		var payload settledPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode order.settled payload: %w", err)
		}
		fact.InvoiceCode = payload.InvoiceCode
		fact.PaymentMethod = strPtr(payload.PaymentMethod)
		fact.GrandTotalRupiah = &payload.GrandTotalRupiah
	default:
		return nil, fmt.Errorf("no fact mapping for event type %q", envelope.EventType)
	}

	return fact, nil
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type rowInserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
}

// FactWriter appends order facts to BigQuery.
type FactWriter struct {
	inserter rowInserter
	table    string
}

func NewFactWriter(inserter rowInserter, table string) (*FactWriter, error) {
	if inserter == nil {
		return nil, fmt.Errorf("row inserter required")
	}
	if table == "" {
		return nil, fmt.Errorf("table name required")
	}
	return &FactWriter{inserter: inserter, table: table}, nil
}

func (w *FactWriter) Handle(ctx context.Context, envelope Envelope) error {
	fact, err := BuildOrderFact(envelope)
	if err != nil {
		return err
	}
	return w.inserter.InsertRows(ctx, w.table, []any{fact})
}
