package orders

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/internal/catalog"
	"github.com/dwiprasetya/laundrypos-backend/internal/customers"
	"github.com/dwiprasetya/laundrypos-backend/internal/outlets"
	"github.com/dwiprasetya/laundrypos-backend/internal/settings"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/dbtest"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
	"github.com/dwiprasetya/laundrypos-backend/pkg/outbox"
	"github.com/dwiprasetya/laundrypos-backend/pkg/pagination"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

type testSequencer struct {
	counter atomic.Int64
}

func (s *testSequencer) NextInvoiceSequence(ctx context.Context, outletCode, day string) (int64, error) {
	return s.counter.Add(1), nil
}

type fixture struct {
	db       *gorm.DB
	service  Service
	outlet   *models.Outlet
	customer *models.Customer
	pkgWash  *models.ServicePackage
	userID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)

	outlet := &models.Outlet{ID: uuid.New(), Code: "JKT01", Name: "Cabang Jakarta", IsActive: true}
	require.NoError(t, db.Create(outlet).Error)

	customer := &models.Customer{
		ID:            uuid.New(),
		Name:          "Budi",
		Phone:         "0811",
		LoyaltyPoints: 50,
		IsActive:      true,
	}
	require.NoError(t, db.Create(customer).Error)

	require.NoError(t, db.Create(&models.BusinessSettings{
		ID:                     1,
		DeliveryServiceEnabled: true,
		FreePickupDistanceKm:   decimal.RequireFromString("2"),
		PickupFeeRupiah:        10000,
		FreeDropoffDistanceKm:  decimal.RequireFromString("3"),
		DropoffFeeRupiah:       8000,
		LoyaltyScheme:          enums.LoyaltySchemePerSpendAmount,
		RupiahPerPointEarned:   10000,
		RupiahPerPointRedeemed: 1000,
		MinPointsToRedeem:      5,
		MembershipFeeRequired:  true,
		MembershipFeeRupiah:    25000,
	}).Error)

	category := &models.ServiceCategory{ID: uuid.New(), Name: "Kiloan", IsActive: true}
	require.NoError(t, db.Create(category).Error)
	laundry := &models.LaundryService{ID: uuid.New(), CategoryID: category.ID, Name: "Cuci Lipat", IsActive: true}
	require.NoError(t, db.Create(laundry).Error)
	pkgWash := &models.ServicePackage{
		ID:              uuid.New(),
		ServiceID:       laundry.ID,
		Name:            "Cuci Lipat 1kg",
		UnitPriceRupiah: 10000,
		Unit:            "kg",
		IsActive:        true,
	}
	require.NoError(t, db.Create(pkgWash).Error)

	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})

	catalogSvc, err := catalog.NewService(catalog.NewRepository(db))
	require.NoError(t, err)
	settingsSvc, err := settings.NewService(settings.NewRepository(db))
	require.NoError(t, err)
	outletSvc, err := outlets.NewService(outlets.NewRepository(db))
	require.NoError(t, err)

	svc, err := NewService(
		NewRepository(db),
		customers.NewRepository(db),
		catalogSvc,
		settingsSvc,
		outletSvc,
		&testTxRunner{db: db},
		&testSequencer{},
		outbox.NewService(outbox.NewRepository(db), logg),
		logg,
		nil,
	)
	require.NoError(t, err)

	return &fixture{
		db:       db,
		service:  svc,
		outlet:   outlet,
		customer: customer,
		pkgWash:  pkgWash,
		userID:   uuid.New(),
	}
}

func (f *fixture) baseInput() CommitInput {
	return CommitInput{
		OutletID:      f.outlet.ID,
		CashierID:     f.userID,
		CustomerID:    f.customer.ID,
		Items:         []CommitItem{{PackageID: f.pkgWash.ID, Quantity: 5}},
		DeliveryMode:  enums.DeliveryModeOnSiteOnly,
		PaymentStatus: enums.PaymentStatusUnpaid,
	}
}

func (f *fixture) reloadCustomer(t *testing.T) *models.Customer {
	t.Helper()
	var row models.Customer
	require.NoError(t, f.db.First(&row, "id = ?", f.customer.ID).Error)
	return &row
}

func TestCommitWritesOrderPointsAndOutboxAtomically(t *testing.T) {
	f := newFixture(t)
	input := f.baseInput()
	input.RedeemPoints = 10

	result, err := f.service.Commit(context.Background(), input)
	require.NoError(t, err)
	require.False(t, result.Replayed)

	order := result.Order
	assert.Equal(t, 50000, order.SubtotalRupiah)
	assert.Equal(t, 10000, order.RedeemDiscountRupiah)
	assert.Equal(t, 40000, order.GrandTotalRupiah)
	assert.Equal(t, enums.ProcessStageReceived, order.Stage)
	assert.Contains(t, order.InvoiceCode, "INV/JKT01/")
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Cuci Lipat 1kg", order.Items[0].PackageName)

	// balance: 50 - 10 redeemed + 5 earned (50000 / 10000)
	assert.Equal(t, 45, f.reloadCustomer(t).LoyaltyPoints)

	var events []models.OutboxEvent
	require.NoError(t, f.db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderCreated, events[0].EventType)
	assert.Equal(t, order.ID, events[0].AggregateID)
}

func TestCommitRejectsOverRedemptionAgainstFreshBalance(t *testing.T) {
	f := newFixture(t)
	input := f.baseInput()
	input.RedeemPoints = 60 // balance is 50

	_, err := f.service.Commit(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	// nothing committed
	assert.Equal(t, 50, f.reloadCustomer(t).LoyaltyPoints)
	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommitReplaysOnIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	input := f.baseInput()
	input.IdempotencyKey = "pos-key-1"

	first, err := f.service.Commit(context.Background(), input)
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := f.service.Commit(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Order.ID, second.Order.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// points awarded exactly once
	assert.Equal(t, 55, f.reloadCustomer(t).LoyaltyPoints)
}

func TestCommitGrantsMembershipOnce(t *testing.T) {
	f := newFixture(t)
	input := f.baseInput()
	input.UpgradeMembership = true

	result, err := f.service.Commit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 25000, result.Order.MembershipFeeRupiah)
	assert.True(t, result.Order.MembershipGranted)
	assert.True(t, f.reloadCustomer(t).IsPaidMember)

	// a second upgrade attempt now fails against fresh customer state
	again := f.baseInput()
	again.UpgradeMembership = true
	_, err = f.service.Commit(context.Background(), again)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestCommitAddsDeliveryFee(t *testing.T) {
	f := newFixture(t)
	input := f.baseInput()
	input.DeliveryMode = enums.DeliveryModePickupAndDropoff
	input.DistanceKm = decimal.RequireFromString("5")

	result, err := f.service.Commit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 18000, result.Order.DeliveryFeeRupiah)
	assert.Equal(t, 68000, result.Order.GrandTotalRupiah)
}

func TestCommitRequiresMethodForPaidOrders(t *testing.T) {
	f := newFixture(t)
	input := f.baseInput()
	input.PaymentStatus = enums.PaymentStatusPaid

	_, err := f.service.Commit(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	method := enums.PaymentMethodCash
	input.PaymentMethod = &method
	result, err := f.service.Commit(context.Background(), input)
	require.NoError(t, err)
	assert.NotNil(t, result.Order.PaidAt)
}

func TestCommitRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	input := f.baseInput()
	input.Items = nil

	_, err := f.service.Commit(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAdvanceStageForwardOnly(t *testing.T) {
	f := newFixture(t)
	result, err := f.service.Commit(context.Background(), f.baseInput())
	require.NoError(t, err)
	ctx := context.Background()

	updated, err := f.service.AdvanceStage(ctx, result.Order.ID, enums.ProcessStageWashing, f.userID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProcessStageWashing, updated.Stage)

	// skipping forward is allowed
	updated, err = f.service.AdvanceStage(ctx, result.Order.ID, enums.ProcessStageReady, f.userID)
	require.NoError(t, err)
	assert.Equal(t, enums.ProcessStageReady, updated.Stage)

	// going backwards is not
	_, err = f.service.AdvanceStage(ctx, result.Order.ID, enums.ProcessStageDrying, f.userID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	logs, err := f.service.StageLogs(ctx, result.Order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, enums.ProcessStageReceived, logs[0].FromStage)
	assert.Equal(t, enums.ProcessStageWashing, logs[0].ToStage)
}

func TestSettleUnpaidOrder(t *testing.T) {
	f := newFixture(t)
	result, err := f.service.Commit(context.Background(), f.baseInput())
	require.NoError(t, err)
	ctx := context.Background()

	settled, err := f.service.Settle(ctx, result.Order.ID, enums.PaymentMethodQRIS, f.userID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, settled.PaymentStatus)
	require.NotNil(t, settled.PaymentMethod)
	assert.Equal(t, enums.PaymentMethodQRIS, *settled.PaymentMethod)

	_, err = f.service.Settle(ctx, result.Order.ID, enums.PaymentMethodCash, f.userID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestListFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		input := f.baseInput()
		input.IdempotencyKey = fmt.Sprintf("key-%d", i)
		_, err := f.service.Commit(ctx, input)
		require.NoError(t, err)
	}

	rows, next, err := f.service.List(ctx, ListFilter{OutletID: f.outlet.ID}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	require.NotEmpty(t, next)

	rest, _, err := f.service.List(ctx, ListFilter{OutletID: f.outlet.ID}, pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, _, err := f.service.List(ctx, ListFilter{OutletID: uuid.New()}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
