package admin_service

import (
	"context"
	"testing"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/config"
	"order-admin/pkg/jwt"
	"order-admin/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) (*fixture, *AuthService, *jwt.Manager) {
	t.Helper()
	security.Cost = bcrypt.MinCost
	f := newFixture(t)
	tokens := jwt.NewManager(config.JWTConfig{SigningKey: "test-key"}, nil)
	return f, NewAuthService(f.deps, tokens), tokens
}

func TestLogin(t *testing.T) {
	f, svc, tokens := newAuth(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx, "root", "secret1"))
	require.NoError(t, svc.EnsureAdmin(ctx, "other", "secret2"))

	var n int64
	require.NoError(t, f.db.Model(&admin_model.Account{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	resp, err := svc.Login(ctx, inout.LoginReq{Username: "root", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, admin_model.RoleAdmin, resp.Account.Role)

	claims, err := tokens.ParseToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, claims.AccountID)

	_, err = svc.Login(ctx, inout.LoginReq{Username: "root", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = svc.Login(ctx, inout.LoginReq{Username: "nobody", Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	require.NoError(t, f.db.Model(&admin_model.Account{}).Where("username = ?", "root").Update("enabled", false).Error)
	_, err = svc.Login(ctx, inout.LoginReq{Username: "root", Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestCreateAccount(t *testing.T) {
	f, svc, _ := newAuth(t)
	ctx := context.Background()
	u := f.user(t, "Alice")

	_, err := svc.CreateAccount(ctx, inout.AccountCreateReq{Username: "alice", Password: "secret1", Role: admin_model.RoleUser})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	acc, err := svc.CreateAccount(ctx, inout.AccountCreateReq{Username: "alice", Password: "secret1", Role: admin_model.RoleUser, UserID: &u.ID})
	require.NoError(t, err)
	require.NotNil(t, acc.UserID)

	_, err = svc.CreateAccount(ctx, inout.AccountCreateReq{Username: "alice", Password: "secret2", Role: admin_model.RoleAdmin})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	me, err := svc.Me(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}
