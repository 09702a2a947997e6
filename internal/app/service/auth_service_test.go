package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemoryRevoker() *memoryRevoker {
	return &memoryRevoker{revoked: map[string]time.Duration{}}
}

func (m *memoryRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = ttl
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

func setupAuthService(t *testing.T, revoker TokenRevoker) AuthService {
	env := setupEnv(t)
	hash, err := util.HashPassword("artesania123")
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&model.AdminUser{Email: "admin@gmp.uy", Name: "Admin", PasswordHash: hash}).Error)
	return NewAuthService(env.admins, testConfig().JWT, revoker)
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthService(t, nil)

	result, err := svc.Login("Admin@GMP.uy", "artesania123")
	require.NoError(t, err)
	assert.Equal(t, "admin@gmp.uy", result.User.Email)
	assert.NotNil(t, result.User.LastLoginAt)
	assert.Equal(t, int64(3600), result.Tokens.ExpiresIn)

	claims, err := util.ValidateToken(result.Tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, util.AccessToken, claims.TokenType)

	_, err = svc.Login("admin@gmp.uy", "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("otro@gmp.uy", "artesania123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	revoker := newMemoryRevoker()
	svc := setupAuthService(t, revoker)
	ctx := context.Background()

	login, err := svc.Login("admin@gmp.uy", "artesania123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, login.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	pair, err := svc.Refresh(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)

	_, err = svc.Refresh(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked, "refresh tokens are single use")

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	revoker := newMemoryRevoker()
	svc := setupAuthService(t, revoker)
	ctx := context.Background()

	login, err := svc.Login("admin@gmp.uy", "artesania123")
	require.NoError(t, err)
	claims, err := util.ValidateToken(login.Tokens.AccessToken, "test-secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.Tokens.AccessToken, login.Tokens.RefreshToken, "", "garbage"))

	revoked, err := svc.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Len(t, revoker.revoked, 2)
	assert.Greater(t, revoker.revoked[claims.ID], time.Duration(0))

	_, err = svc.Refresh(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_WithoutRevoker(t *testing.T) {
	svc := setupAuthService(t, nil)
	ctx := context.Background()

	login, err := svc.Login("admin@gmp.uy", "artesania123")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, login.Tokens.AccessToken))

	revoked, err := svc.IsRevoked(ctx, "anything")
	require.NoError(t, err)
	assert.False(t, revoked)

	me, err := svc.Me(login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", me.Name)

	_, err = svc.Me(999)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}
