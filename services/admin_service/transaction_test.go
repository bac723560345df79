package admin_service

import (
	"context"
	"testing"

	"order-admin/inout"
	"order-admin/pkg/apperr"
	"order-admin/pkg/query"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionsScopedToAdmin(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.deps)
	ctx := context.Background()

	small, err := svc.Create(ctx, "admin-1", inout.TransactionCreateReq{Amount: decimal.NewFromInt(10), Currency: "usd", TransactionDate: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "USD", small.Currency)
	assert.True(t, small.ExchangeRate.Equal(decimal.NewFromInt(1)))

	big, err := svc.Create(ctx, "admin-1", inout.TransactionCreateReq{Amount: decimal.NewFromInt(90), Currency: "CNY", TransactionDate: "2024-05-01"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "admin-2", inout.TransactionCreateReq{Amount: decimal.NewFromInt(5), Currency: "CNY", TransactionDate: "2024-05-02"})
	require.NoError(t, err)

	page, err := svc.List(ctx, "admin-1", query.Request{})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.TotalCount)
	assert.Equal(t, big.ID, page.Rows[0].ID)
	assert.Equal(t, small.ID, page.Rows[1].ID)

	_, err = svc.Update(ctx, "admin-2", small.ID, inout.TransactionUpdateReq{Note: strPtr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, "admin-2", small.ID), apperr.KindNotFound))

	updated, err := svc.Update(ctx, "admin-1", small.ID, inout.TransactionUpdateReq{Note: strPtr("fee")})
	require.NoError(t, err)
	assert.Equal(t, "fee", updated.Note)
	require.NoError(t, svc.Delete(ctx, "admin-1", small.ID))

	_, err = svc.Create(ctx, "admin-1", inout.TransactionCreateReq{Currency: "CNY", TransactionDate: "2024-05-01", UserID: strPtr("ghost")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
