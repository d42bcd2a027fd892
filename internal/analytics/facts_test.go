package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

func TestBuildOrderFactCreated(t *testing.T) {
	outletID := uuid.NewString()
	customerID := uuid.NewString()
	envelope := Envelope{
		EventID:     uuid.NewString(),
		EventType:   enums.EventOrderCreated,
		AggregateID: uuid.NewString(),
		OccurredAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Payload: mustJSON(t, map[string]any{
			"invoice_code":       "INV/PST/20260314/0007",
			"outlet_id":          outletID,
			"customer_id":        customerID,
			"grand_total_rupiah": 40000,
			"points_redeemed":    10,
			"points_earned":      5,
			"payment_status":     "unpaid",
		}),
	}

	fact, err := BuildOrderFact(envelope)
	require.NoError(t, err)

	require.Equal(t, envelope.EventID, fact.EventID)
	require.Equal(t, "order.created", fact.EventType)
	require.Equal(t, envelope.AggregateID, fact.OrderID)
	require.Equal(t, "INV/PST/20260314/0007", fact.InvoiceCode)
	require.Equal(t, envelope.OccurredAt, fact.OccurredAt)

	require.NotNil(t, fact.OutletID)
	require.Equal(t, outletID, *fact.OutletID)
	require.NotNil(t, fact.CustomerID)
	require.Equal(t, customerID, *fact.CustomerID)
	require.NotNil(t, fact.GrandTotalRupiah)
	require.Equal(t, 40000, *fact.GrandTotalRupiah)
	require.NotNil(t, fact.PointsRedeemed)
	require.Equal(t, 10, *fact.PointsRedeemed)
	require.NotNil(t, fact.PointsEarned)
	require.Equal(t, 5, *fact.PointsEarned)
	require.NotNil(t, fact.PaymentStatus)
	require.Equal(t, "unpaid", *fact.PaymentStatus)

	require.Nil(t, fact.FromStage)
	require.Nil(t, fact.ToStage)
	require.Nil(t, fact.PaymentMethod)
	require.False(t, fact.InsertedAt.IsZero())
}

func TestBuildOrderFactStageChanged(t *testing.T) {
	envelope := Envelope{
		EventID:     uuid.NewString(),
		EventType:   enums.EventOrderStaged,
		AggregateID: uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Payload: mustJSON(t, map[string]any{
			"invoice_code": "INV/PST/20260314/0007",
			"from_stage":   "washing",
			"to_stage":     "ironing",
		}),
	}

	fact, err := BuildOrderFact(envelope)
	require.NoError(t, err)

	require.Equal(t, "order.stage_changed", fact.EventType)
	require.NotNil(t, fact.FromStage)
	require.Equal(t, "washing", *fact.FromStage)
	require.NotNil(t, fact.ToStage)
	require.Equal(t, "ironing", *fact.ToStage)
	require.Nil(t, fact.GrandTotalRupiah)
	require.Nil(t, fact.PaymentStatus)
}

func TestBuildOrderFactSettled(t *testing.T) {
	envelope := Envelope{
		EventID:     uuid.NewString(),
		EventType:   enums.EventOrderSettled,
		AggregateID: uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Payload: mustJSON(t, map[string]any{
			"invoice_code":       "INV/PST/20260314/0007",
			"payment_method":     "qris",
			"grand_total_rupiah": 68000,
		}),
	}

	fact, err := BuildOrderFact(envelope)
	require.NoError(t, err)

	require.NotNil(t, fact.PaymentMethod)
	require.Equal(t, "qris", *fact.PaymentMethod)
	require.NotNil(t, fact.GrandTotalRupiah)
	require.Equal(t, 68000, *fact.GrandTotalRupiah)
	require.Nil(t, fact.FromStage)
}

func TestBuildOrderFactUnknownType(t *testing.T) {
	envelope := Envelope{
		EventID:     uuid.NewString(),
		EventType:   enums.OutboxEventType("order.deleted"),
		AggregateID: uuid.NewString(),
		Payload:     json.RawMessage(`{}`),
	}

	_, err := BuildOrderFact(envelope)
	require.Error(t, err)
}

func mustJSON(t *testing.T, value any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	return data
}
