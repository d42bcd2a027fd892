package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/dbtest"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

func newReportsDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t)
}

func seedOrder(t *testing.T, db *gorm.DB, outletID, customerID uuid.UUID, total int, status enums.PaymentStatus, stage enums.ProcessStage, createdAt time.Time) {
	t.Helper()
	order := &models.Order{
		ID:               uuid.New(),
		InvoiceCode:      "INV/TEST/" + uuid.NewString(),
		OutletID:         outletID,
		CustomerID:       customerID,
		CashierID:        uuid.New(),
		SubtotalRupiah:   total,
		GrandTotalRupiah: total,
		PointsEarned:     total / 10000,
		DeliveryMode:     enums.DeliveryModeOnSiteOnly,
		PaymentStatus:    status,
		Stage:            stage,
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("created_at", createdAt).Error)
}

func TestRevenueByOutletSplitsPaidAndOutstanding(t *testing.T) {
	db := newReportsDB(t)
	outlet := &models.Outlet{ID: uuid.New(), Code: "JKT01", Name: "Jakarta", IsActive: true}
	require.NoError(t, db.Create(outlet).Error)
	customerID := uuid.New()

	day := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	seedOrder(t, db, outlet.ID, customerID, 50000, enums.PaymentStatusPaid, enums.ProcessStageReceived, day)
	seedOrder(t, db, outlet.ID, customerID, 30000, enums.PaymentStatusUnpaid, enums.ProcessStageWashing, day.Add(time.Hour))
	// outside the range
	seedOrder(t, db, outlet.ID, customerID, 99000, enums.PaymentStatusPaid, enums.ProcessStageReceived, day.AddDate(0, 2, 0))

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	rows, err := svc.RevenueByOutlet(context.Background(), day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "JKT01", rows[0].OutletCode)
	assert.Equal(t, 2, rows[0].OrderCount)
	assert.Equal(t, 50000, rows[0].RevenueRupiah)
	assert.Equal(t, 30000, rows[0].OutstandingRupiah)
	assert.Equal(t, 8, rows[0].PointsEarnedTotal)
}

func TestDailyRevenueGroupsByDay(t *testing.T) {
	db := newReportsDB(t)
	outlet := &models.Outlet{ID: uuid.New(), Code: "BDG01", Name: "Bandung", IsActive: true}
	require.NoError(t, db.Create(outlet).Error)
	customerID := uuid.New()

	day1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	seedOrder(t, db, outlet.ID, customerID, 40000, enums.PaymentStatusPaid, enums.ProcessStageReceived, day1)
	seedOrder(t, db, outlet.ID, customerID, 20000, enums.PaymentStatusPaid, enums.ProcessStageReceived, day1.Add(2*time.Hour))
	seedOrder(t, db, outlet.ID, customerID, 15000, enums.PaymentStatusPaid, enums.ProcessStageReceived, day2)

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	rows, err := svc.DailyRevenue(context.Background(), outlet.ID, day1.AddDate(0, 0, -1), day2.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 60000, rows[0].RevenueRupiah)
	assert.Equal(t, 2, rows[0].OrderCount)
	assert.Equal(t, 15000, rows[1].RevenueRupiah)
}

func TestStageBacklogExcludesPickedUp(t *testing.T) {
	db := newReportsDB(t)
	outlet := &models.Outlet{ID: uuid.New(), Code: "SBY01", Name: "Surabaya", IsActive: true}
	require.NoError(t, db.Create(outlet).Error)
	customerID := uuid.New()
	now := time.Now()

	seedOrder(t, db, outlet.ID, customerID, 10000, enums.PaymentStatusPaid, enums.ProcessStageWashing, now)
	seedOrder(t, db, outlet.ID, customerID, 10000, enums.PaymentStatusPaid, enums.ProcessStageWashing, now)
	seedOrder(t, db, outlet.ID, customerID, 10000, enums.PaymentStatusPaid, enums.ProcessStageReady, now)
	seedOrder(t, db, outlet.ID, customerID, 10000, enums.PaymentStatusPaid, enums.ProcessStagePickedUp, now)

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	rows, err := svc.StageBacklog(context.Background(), outlet.ID)
	require.NoError(t, err)

	counts := map[enums.ProcessStage]int{}
	for _, row := range rows {
		counts[row.Stage] = row.OrderCount
	}
	assert.Equal(t, 2, counts[enums.ProcessStageWashing])
	assert.Equal(t, 1, counts[enums.ProcessStageReady])
	assert.NotContains(t, counts, enums.ProcessStagePickedUp)
}

func TestReportRangeValidation(t *testing.T) {
	svc, err := NewService(NewRepository(newReportsDB(t)))
	require.NoError(t, err)

	_, err = svc.RevenueByOutlet(context.Background(), time.Time{}, time.Now())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	now := time.Now()
	_, err = svc.DailyRevenue(context.Background(), uuid.Nil, now, now.Add(-time.Hour))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.RevenueByOutlet(context.Background(), now.AddDate(-2, 0, 0), now)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
