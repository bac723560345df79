package admin_service

import (
	"context"
	"testing"
	"time"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationalCostUpsertSameMonthKeepsOneRow(t *testing.T) {
	f := newFixture(t)
	svc := NewOperationalCostService(f.deps)
	ctx := context.Background()

	first, err := svc.Save(ctx, "admin-1", inout.OperationalCostCreateReq{Amount: decimal.NewFromInt(100), DateTime: "2024-05-03"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05", first.MonthBucket)

	second, err := svc.Save(ctx, "admin-1", inout.OperationalCostCreateReq{Amount: decimal.NewFromInt(250), DateTime: "2024-05-28 18:00:00"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(250)))
	assert.True(t, first.DateTime.Equal(second.DateTime))

	var n int64
	require.NoError(t, f.db.Model(&admin_model.OperationalCost{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	got, err := svc.Get(ctx, "admin-1", "2024-05-15T00:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(250)))

	_, err = svc.Save(ctx, "admin-2", inout.OperationalCostCreateReq{Amount: decimal.NewFromInt(7), DateTime: "2024-05-03"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, "admin-1", inout.OperationalCostCreateReq{Amount: decimal.NewFromInt(9), DateTime: "2024-06-01"})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&admin_model.OperationalCost{}).Count(&n).Error)
	assert.EqualValues(t, 3, n)
}

func TestOperationalCostGetAbsentReturnsNil(t *testing.T) {
	f := newFixture(t)
	got, err := NewOperationalCostService(f.deps).Get(context.Background(), "admin-1", "2024-01-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMonthBucketUsesReferenceZone(t *testing.T) {
	f := newFixture(t)
	deps := f.deps
	deps.Location = time.FixedZone("CST", 8*3600)
	store := NewMonthlyAggregateStore[admin_model.OperationalCost, *admin_model.OperationalCost](deps, "operational_cost")

	// UTC 4月30日 20:00 在 +8 时区已是5月
	assert.Equal(t, "2024-05", store.Bucket(time.Date(2024, 4, 30, 20, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-04", store.Bucket(time.Date(2024, 4, 30, 15, 59, 0, 0, time.UTC)))
}

func TestTransactionBalanceUpsert(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionBalanceService(f.deps)
	ctx := context.Background()

	_, err := svc.Save(ctx, "admin-1", inout.TransactionBalanceCreateReq{Data: `{"p":1}`, DateTime: "2024-05-01"})
	require.NoError(t, err)
	saved, err := svc.Save(ctx, "admin-1", inout.TransactionBalanceCreateReq{Data: `{"p":2}`, DateTime: "2024-05-31"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":2}`, string(saved.Data))

	got, err := svc.Get(ctx, "admin-1", "2024-05-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"p":2}`, inout.NewTransactionBalanceResp(got).Data)

	_, err = svc.Save(ctx, "admin-1", inout.TransactionBalanceCreateReq{Data: `{broken`, DateTime: "2024-05-01"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Save(ctx, "admin-1", inout.TransactionBalanceCreateReq{Data: `{}`, DateTime: "May"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
