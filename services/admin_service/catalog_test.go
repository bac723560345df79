package admin_service

import (
	"context"
	"testing"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserBulkCreateSkipsExisting(t *testing.T) {
	f := newFixture(t)
	f.user(t, "Alice")
	svc := NewUserService(f.deps)

	created, err := svc.BulkCreate(context.Background(), []string{"alice", "Bob", " bob ", "Carol"})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "Bob", created[0].FullName)
	assert.Equal(t, "Carol", created[1].FullName)

	page, err := svc.List(context.Background(), query.Request{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
}

func TestUserDeleteRefusedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.deps)
	u := f.user(t, "Alice")
	o := f.order(t, u.ID, admin_model.StatusOngoing, nil)

	assert.True(t, apperr.Is(svc.Delete(context.Background(), u.ID), apperr.KindConflict))

	require.NoError(t, f.db.Delete(&o).Error)
	require.NoError(t, svc.Delete(context.Background(), u.ID))
	assert.True(t, apperr.Is(svc.Delete(context.Background(), u.ID), apperr.KindNotFound))
}

func TestUserUpdate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Alice")

	got, err := NewUserService(f.deps).Update(context.Background(), u.ID, inout.UserUpdateReq{FullName: strPtr("Alice B"), Phone: strPtr("123")})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.FullName)
	assert.Equal(t, "123", got.Phone)
}

func TestSourceUniqueNameAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewSourceService(f.deps)
	ctx := context.Background()

	src, err := svc.Create(ctx, inout.NamedCreateReq{Name: "Taobao"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, inout.NamedCreateReq{Name: "taobao"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	other, err := svc.Create(ctx, inout.NamedCreateReq{Name: "1688"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, other.ID, inout.NamedUpdateReq{Name: strPtr("TAOBAO")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	u := f.user(t, "Alice")
	o := f.order(t, u.ID, admin_model.StatusOngoing, nil)
	require.NoError(t, f.db.Model(&o).Update("source_id", src.ID).Error)
	assert.True(t, apperr.Is(svc.Delete(ctx, src.ID), apperr.KindConflict))
	require.NoError(t, svc.Delete(ctx, other.ID))

	page, err := svc.List(ctx, query.Request{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)
}

func TestShippingStoreCRUD(t *testing.T) {
	f := newFixture(t)
	svc := NewShippingStoreService(f.deps)
	ctx := context.Background()

	store, err := svc.Create(ctx, inout.NamedCreateReq{Name: "Guangzhou", Note: "main"})
	require.NoError(t, err)
	got, err := svc.Update(ctx, store.ID, inout.NamedUpdateReq{Note: strPtr("backup")})
	require.NoError(t, err)
	assert.Equal(t, "backup", got.Note)
	require.NoError(t, svc.Delete(ctx, store.ID))
	assert.True(t, apperr.Is(svc.Delete(ctx, store.ID), apperr.KindNotFound))
}
