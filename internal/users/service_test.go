package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dwiprasetya/laundrypos-backend/internal/outlets"
	"github.com/dwiprasetya/laundrypos-backend/pkg/config"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/dbtest"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/security"
)

func fastPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUsersFixture(t *testing.T) (Service, *gorm.DB, *models.Outlet) {
	t.Helper()
	db := dbtest.Open(t)

	outlet := &models.Outlet{ID: uuid.New(), Code: "JKT01", Name: "Jakarta", IsActive: true}
	require.NoError(t, db.Create(outlet).Error)

	svc, err := NewService(NewRepository(db), outlets.NewRepository(db), fastPasswordConfig())
	require.NoError(t, err)
	return svc, db, outlet
}

func TestCreateCashierIssuesTempPassword(t *testing.T) {
	svc, _, outlet := newUsersFixture(t)

	row, tempPassword, err := svc.Create(context.Background(), CreateInput{
		Name:     "Siti",
		Email:    " Siti@Laundry.ID ",
		Role:     enums.StaffRoleCashier,
		OutletID: &outlet.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "siti@laundry.id", row.Email)
	assert.Len(t, tempPassword, tempPasswordLength)
	assert.NotEqual(t, tempPassword, row.PasswordHash)

	ok, err := security.VerifyPassword(tempPassword, row.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateCashierRequiresOutlet(t *testing.T) {
	svc, _, _ := newUsersFixture(t)

	_, _, err := svc.Create(context.Background(), CreateInput{
		Name:  "Siti",
		Email: "siti@laundry.id",
		Role:  enums.StaffRoleCashier,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _, outlet := newUsersFixture(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, CreateInput{Name: "Siti", Email: "siti@laundry.id", Role: enums.StaffRoleCashier, OutletID: &outlet.ID})
	require.NoError(t, err)

	_, _, err = svc.Create(ctx, CreateInput{Name: "Siti Dua", Email: "SITI@laundry.id", Role: enums.StaffRoleCashier, OutletID: &outlet.ID})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestResetPasswordInvalidatesOldOne(t *testing.T) {
	svc, _, outlet := newUsersFixture(t)
	ctx := context.Background()

	row, first, err := svc.Create(ctx, CreateInput{Name: "Siti", Email: "siti@laundry.id", Role: enums.StaffRoleCashier, OutletID: &outlet.ID})
	require.NoError(t, err)

	second, err := svc.ResetPassword(ctx, row.ID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	updated, err := svc.GetByID(ctx, row.ID)
	require.NoError(t, err)

	ok, err := security.VerifyPassword(first, updated.PasswordHash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = security.VerifyPassword(second, updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeactivateIsNotRepeatable(t *testing.T) {
	svc, _, outlet := newUsersFixture(t)
	ctx := context.Background()

	row, _, err := svc.Create(ctx, CreateInput{Name: "Siti", Email: "siti@laundry.id", Role: enums.StaffRoleCashier, OutletID: &outlet.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, row.ID))
	err = svc.Deactivate(ctx, row.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestUpdateMovesCashierBetweenOutlets(t *testing.T) {
	svc, db, outlet := newUsersFixture(t)
	ctx := context.Background()

	other := &models.Outlet{ID: uuid.New(), Code: "BDG01", Name: "Bandung", IsActive: true}
	require.NoError(t, db.Create(other).Error)
	closed := &models.Outlet{ID: uuid.New(), Code: "SBY01", Name: "Surabaya", IsActive: false}
	require.NoError(t, db.Create(closed).Error)

	row, _, err := svc.Create(ctx, CreateInput{Name: "Siti", Email: "siti@laundry.id", Role: enums.StaffRoleCashier, OutletID: &outlet.ID})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, row.ID, UpdateInput{OutletID: &other.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.OutletID)
	assert.Equal(t, other.ID, *updated.OutletID)

	_, err = svc.Update(ctx, row.ID, UpdateInput{OutletID: &closed.ID})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}
