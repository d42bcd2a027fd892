package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/dbtest"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t)
}

func seededService(t *testing.T) Service {
	t.Helper()
	db := testDB(t)
	require.NoError(t, db.Create(&models.BusinessSettings{
		ID:                     1,
		DeliveryServiceEnabled: true,
		FreePickupDistanceKm:   decimal.RequireFromString("2"),
		PickupFeeRupiah:        10000,
		LoyaltyScheme:          enums.LoyaltySchemePerSpendAmount,
		RupiahPerPointEarned:   10000,
		RupiahPerPointRedeemed: 1000,
		MinPointsToRedeem:      5,
	}).Error)

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestSnapshotFreezesPolicies(t *testing.T) {
	svc := seededService(t)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Delivery.Enabled)
	assert.Equal(t, 10000, snap.Delivery.PickupFeeRupiah)
	assert.Equal(t, enums.LoyaltySchemePerSpendAmount, snap.Loyalty.Scheme)
	assert.Equal(t, 5, snap.Loyalty.MinPointsToRedeem)
}

func TestSnapshotMissingRowIsConfigError(t *testing.T) {
	svc, err := NewService(NewRepository(testDB(t)))
	require.NoError(t, err)

	_, err = svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}

func TestUpdateRejectsIncompleteScheme(t *testing.T) {
	svc := seededService(t)

	_, err := svc.Update(context.Background(), UpdateInput{
		LoyaltyScheme: enums.LoyaltySchemePerWeight,
		// kg_per_point and points_per_kg left at zero
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestUpdatePersistsNewPolicy(t *testing.T) {
	svc := seededService(t)

	updated, err := svc.Update(context.Background(), UpdateInput{
		LoyaltyScheme:          enums.LoyaltySchemePerVisit,
		PointsPerVisit:         5,
		RupiahPerPointRedeemed: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.LoyaltySchemePerVisit, updated.LoyaltyScheme)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Loyalty.PointsPerVisit)
	assert.False(t, snap.Delivery.Enabled)
}
