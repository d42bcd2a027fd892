package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/dwiprasetya/laundrypos-backend/pkg/auth"
	"github.com/dwiprasetya/laundrypos-backend/pkg/auth/session"
	"github.com/dwiprasetya/laundrypos-backend/pkg/config"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db/models"
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
	"github.com/dwiprasetya/laundrypos-backend/pkg/security"
)

type stubUsers struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
}

func (s *stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
}

type stubSessions struct {
	tokens  map[string]string
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + newID
	s.tokens[newID] = token
	return newID, token, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "laundrypos-test",
		ExpirationMinutes: 15,
	}
}

func newAuthFixture(t *testing.T) (Service, *models.User, string, *stubSessions) {
	t.Helper()
	password := "rahasia-kuat-123"
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)

	outletID := uuid.New()
	user := &models.User{
		ID:           uuid.New(),
		OutletID:     &outletID,
		Name:         "Siti",
		Email:        "siti@laundry.id",
		PasswordHash: hash,
		Role:         enums.StaffRoleCashier,
		IsActive:     true,
	}
	users := &stubUsers{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[uuid.UUID]*models.User{user.ID: user},
	}
	sessions := newStubSessions()
	logg := logger.New(logger.Options{ServiceName: "auth-test", Output: io.Discard})

	svc, err := NewService(users, sessions, testJWTConfig(), logg)
	require.NoError(t, err)
	return svc, user, password, sessions
}

func TestLoginIssuesVerifiableTokenPair(t *testing.T) {
	svc, user, password, sessions := newAuthFixture(t)

	pair, loggedIn, err := svc.Login(context.Background(), user.Email, password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, 15*60, pair.ExpiresIn)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.StaffRoleCashier, claims.Role)
	require.NotEmpty(t, claims.ID)
	assert.Equal(t, pair.RefreshToken, sessions.tokens[claims.ID])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, user, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), user.Email, "salah-total")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoginRejectsUnknownEmailWithSameError(t *testing.T) {
	svc, _, password, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "tidakada@laundry.id", password)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, user, password, _ := newAuthFixture(t)
	user.IsActive = false

	_, _, err := svc.Login(context.Background(), user.Email, password)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, user, password, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, _, err := svc.Login(ctx, user.Email, password)
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// old refresh token is burned after rotation
	_, err = svc.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshRevokesSessionForDeactivatedAccount(t *testing.T) {
	svc, user, password, sessions := newAuthFixture(t)
	ctx := context.Background()

	pair, _, err := svc.Login(ctx, user.Email, password)
	require.NoError(t, err)

	user.IsActive = false
	_, err = svc.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
	assert.Empty(t, sessions.tokens)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, user, password, sessions := newAuthFixture(t)
	ctx := context.Background()

	pair, _, err := svc.Login(ctx, user.Email, password)
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.NotContains(t, sessions.tokens, claims.ID)
}
