package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwiprasetya/laundrypos-backend/pkg/db/dbtest"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/types"
)

func testService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateAndSearchCustomer(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Budi Santoso", Phone: "081234567890"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, 0, created.LoyaltyPoints)

	byName, err := svc.Search(ctx, "budi")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byPhone, err := svc.Search(ctx, "0812345")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, created.ID, byPhone[0].ID)
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Budi", Phone: "0811"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Name: "Lain", Phone: "0811"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestReactivatePreservesLoyaltyState(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Budi", Phone: "0811"})
	require.NoError(t, err)

	// simulate accrued loyalty state before deactivation
	repo := svc.(*service).repo
	created.LoyaltyPoints = 42
	created.IsPaidMember = true
	require.NoError(t, repo.Update(ctx, created))
	require.NoError(t, svc.Deactivate(ctx, created.ID))

	// duplicate-phone create steers the caller to reactivation
	_, err = svc.Create(ctx, CreateInput{Name: "Budi", Phone: "0811"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	revived, err := svc.Reactivate(ctx, created.ID, CreateInput{Name: "Budi S.", Phone: "0811"})
	require.NoError(t, err)
	assert.True(t, revived.IsActive)
	assert.Equal(t, 42, revived.LoyaltyPoints)
	assert.True(t, revived.IsPaidMember)
	assert.Equal(t, "Budi S.", revived.Name)
}

func TestSearchExcludesDeactivated(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Budi", Phone: "0811"})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, created.ID))

	rows, err := svc.Search(ctx, "Budi")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateAddress(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Budi", Phone: "0811"})
	require.NoError(t, err)

	_, err = svc.UpdateAddress(ctx, created.ID, types.Address{})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	updated, err := svc.UpdateAddress(ctx, created.ID, types.Address{
		Line1: "Jl. Melati No. 5",
		City:  "Bandung",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Bandung", updated.Address.City)
}
