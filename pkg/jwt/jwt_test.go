package jwt

import (
	"context"
	"sync"
	"testing"
	"time"

	"order-admin/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (b *memoryBlacklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager(config.JWTConfig{SigningKey: "k", Expiry: time.Hour, Issuer: "test"}, nil)

	token, err := m.GenerateToken("acc-1", "USER", "user-9")
	require.NoError(t, err)

	claims, err := m.ParseToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "user-9", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewManager(config.JWTConfig{SigningKey: "k", Expiry: time.Hour}, nil)
	other := NewManager(config.JWTConfig{SigningKey: "other", Expiry: time.Hour}, nil)

	token, err := other.GenerateToken("acc-1", "ADMIN", "")
	require.NoError(t, err)
	_, err = m.ParseToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ParseToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	expired := NewManager(config.JWTConfig{SigningKey: "k", Expiry: -time.Minute}, nil)
	expired.expiry = -time.Minute
	token, err = expired.GenerateToken("acc-1", "ADMIN", "")
	require.NoError(t, err)
	_, err = m.ParseToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_Revoke(t *testing.T) {
	bl := &memoryBlacklist{revoked: map[string]bool{}}
	m := NewManager(config.JWTConfig{SigningKey: "k", Expiry: time.Hour}, bl)
	ctx := context.Background()

	token, err := m.GenerateToken("acc-1", "ADMIN", "")
	require.NoError(t, err)
	claims, err := m.ParseToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.RevokeToken(ctx, claims))
	_, err = m.ParseToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenInBlacklist)
}
