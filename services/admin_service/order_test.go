package admin_service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/events"
	"order-admin/pkg/query"
	"order-admin/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminIdentity = utils.Identity{AccountID: "acc-admin", Role: admin_model.RoleAdmin}

func TestOrderCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.deps)
	ctx := context.Background()
	u := f.user(t, "Alice")

	created, err := svc.Create(ctx, inout.OrderCreateReq{
		OrderDate:  "2024-05-01",
		SKU:        "SKU-1",
		TotalPrice: decimal.NewFromInt(300),
		UserID:     u.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, admin_model.StatusOngoing, created.Status)
	assert.Nil(t, created.StatusChangeDate)
	require.NotNil(t, created.User)
	assert.Equal(t, "Alice", created.User.FullName)

	updated, err := svc.Update(ctx, created.ID, inout.OrderUpdateReq{Status: strPtr(admin_model.StatusShipped), SKU: strPtr("SKU-2")})
	require.NoError(t, err)
	assert.Equal(t, "SKU-2", updated.SKU)
	require.NotNil(t, updated.StatusChangeDate)
	assert.WithinDuration(t, testNow, *updated.StatusChangeDate, time.Second)

	updated, err = svc.Update(ctx, created.ID, inout.OrderUpdateReq{Status: strPtr(admin_model.StatusOngoing)})
	require.NoError(t, err)
	assert.Nil(t, updated.StatusChangeDate)

	_, err = svc.Update(ctx, created.ID, inout.OrderUpdateReq{UserID: strPtr("nobody")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Create(ctx, inout.OrderCreateReq{OrderDate: "yesterday", UserID: u.ID})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestOrderUpdatePublishesStatusChange(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.deps)
	ctx := context.Background()
	o := f.order(t, f.user(t, "Alice").ID, admin_model.StatusOngoing, nil)

	_, err := svc.Update(ctx, o.ID, inout.OrderUpdateReq{SKU: strPtr("SKU-9")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, o.ID, inout.OrderUpdateReq{Status: strPtr(admin_model.StatusOngoing)})
	require.NoError(t, err)
	assert.Empty(t, f.events.Events())

	_, err = svc.Update(ctx, o.ID, inout.OrderUpdateReq{Status: strPtr(admin_model.StatusLanded)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, o.ID, inout.OrderUpdateReq{Status: strPtr(admin_model.StatusOngoing)})
	require.NoError(t, err)

	published := f.events.Events()
	require.Len(t, published, 2)
	assert.Equal(t, events.OrderStatusChanged, published[0].Type)
	assert.Equal(t, events.StatusChanged{Status: admin_model.StatusLanded, Cleared: []string{}, Stamped: []string{o.ID}}, published[0].Payload)
	assert.Equal(t, events.StatusChanged{Status: admin_model.StatusOngoing, Cleared: []string{o.ID}, Stamped: []string{}}, published[1].Payload)
}

func TestOrderCreateWithStatusStampsDate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Alice")

	o, err := NewOrderService(f.deps).Create(context.Background(), inout.OrderCreateReq{
		OrderDate: "2024-05-01", UserID: u.ID, Status: admin_model.StatusLanded,
	})
	require.NoError(t, err)
	require.NotNil(t, o.StatusChangeDate)
}

func TestOrderListScopesUserRole(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.deps)
	alice := f.user(t, "Alice")
	bob := f.user(t, "Bob")
	f.order(t, alice.ID, admin_model.StatusOngoing, nil)
	f.order(t, alice.ID, admin_model.StatusShipped, timePtr(testNow))
	f.order(t, bob.ID, admin_model.StatusOngoing, nil)

	page, err := svc.List(context.Background(), query.Request{}, adminIdentity)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)

	page, err = svc.List(context.Background(), query.Request{}, utils.Identity{Role: admin_model.RoleUser, UserID: bob.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, bob.ID, page.Rows[0].UserID)
	require.NotNil(t, page.Rows[0].User)

	_, err = svc.List(context.Background(), query.Request{}, utils.Identity{Role: admin_model.RoleUser})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	page, err = svc.List(context.Background(), query.Request{SearchText: "ali"}, adminIdentity)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalCount)
}

func TestOrderDeleteAndBulkDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.deps)
	u := f.user(t, "Alice")
	a := f.order(t, u.ID, admin_model.StatusOngoing, nil)
	b := f.order(t, u.ID, admin_model.StatusOngoing, nil)
	c := f.order(t, u.ID, admin_model.StatusOngoing, nil)

	require.NoError(t, svc.Delete(context.Background(), a.ID))
	assert.True(t, apperr.Is(svc.Delete(context.Background(), a.ID), apperr.KindNotFound))

	n, err := svc.BulkDelete(context.Background(), []string{b.ID, c.ID, b.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestOrderExportRoundTripsThroughImport(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Alice")
	f.order(t, u.ID, admin_model.StatusShipped, timePtr(testNow))

	buf, err := NewOrderService(f.deps).Export(context.Background(), query.Request{Pagination: query.Pagination{PageSize: 1}}, adminIdentity)
	require.NoError(t, err)

	rows, err := ParseWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].UserName.String())
	assert.Equal(t, admin_model.StatusShipped, LooseStatus(rows[0].Status))
}
