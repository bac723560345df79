package admin_service

import (
	"context"
	"testing"
	"time"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/audit"
	"order-admin/pkg/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(userName string, extra func(*inout.BulkImportRow)) inout.BulkImportRow {
	r := inout.BulkImportRow{
		UserName:   inout.NewLoose(userName),
		OrderDate:  inout.NewLoose("2024-05-01"),
		TotalPrice: inout.NewLoose("1,200.50"),
	}
	if extra != nil {
		extra(&r)
	}
	return r
}

func TestCheckMissingUserNames(t *testing.T) {
	f := newFixture(t)
	f.user(t, "Alice")
	svc := NewImportService(f.deps)

	missing, err := svc.CheckMissingUserNames(context.Background(), []string{" alice ", "Bob", "bob", "", "Carol"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Carol"}, missing)

	missing, err = svc.CheckMissingUserNames(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestBulkCreateRequiresConfirmationForMissingUsers(t *testing.T) {
	f := newFixture(t)
	f.user(t, "A")
	svc := NewImportService(f.deps)
	rows := []inout.BulkImportRow{row("A", nil), row("B", nil)}

	_, err := svc.BulkCreate(context.Background(), "admin-1", rows, false)
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindReferenceUnresolved, e.Kind)
	assert.Equal(t, apperr.RefUser, e.RefKind)
	assert.Equal(t, []string{"B"}, e.Missing)

	var n int64
	require.NoError(t, f.db.Model(&admin_model.Order{}).Count(&n).Error)
	assert.Zero(t, n)

	orders, err := svc.BulkCreate(context.Background(), "admin-1", rows, true)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	var users []admin_model.User
	require.NoError(t, f.db.Order("full_name").Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, "B", users[1].FullName)
	assert.Equal(t, users[1].ID, orders[1].UserID)
	assert.True(t, orders[0].TotalPrice.Equal(decimal.RequireFromString("1200.5")))

	records := f.audit.Records()
	require.Len(t, records, 2)
	assert.Equal(t, audit.OutcomeUnresolved, records[0].Outcome)
	assert.Equal(t, []string{"B"}, records[0].Missing)
	assert.Equal(t, audit.OutcomeSuccess, records[1].Outcome)
	assert.Equal(t, []string{"B"}, records[1].CreatedUsers)
	assert.Equal(t, 2, records[1].CreatedOrders)

	published := f.events.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.OrderBulkCreated, published[0].Type)
}

func TestBulkCreateMatchesNamesCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "Alice Smith")
	svc := NewImportService(f.deps)

	orders, err := svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{row("alice smith ", nil)}, false)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, alice.ID, orders[0].UserID)
}

func TestBulkCreateResolvesSourcesAndStores(t *testing.T) {
	f := newFixture(t)
	f.user(t, "A")
	src := admin_model.Source{Name: "Taobao"}
	store := admin_model.ShippingStore{Name: "Guangzhou"}
	require.NoError(t, f.db.Create(&src).Error)
	require.NoError(t, f.db.Create(&store).Error)
	svc := NewImportService(f.deps)

	orders, err := svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{
		row("A", func(r *inout.BulkImportRow) {
			r.SourceName = inout.NewLoose("taobao")
			r.ShippingStoreName = inout.NewLoose("Guangzhou")
			r.Status = inout.NewLoose("Landed in China")
		}),
	}, false)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].SourceID)
	assert.Equal(t, src.ID, *orders[0].SourceID)
	require.NotNil(t, orders[0].ShippingStoreID)
	assert.Equal(t, store.ID, *orders[0].ShippingStoreID)
	assert.Equal(t, admin_model.StatusLandedInChina, orders[0].Status)
	require.NotNil(t, orders[0].StatusChangeDate)
	assert.WithinDuration(t, testNow, *orders[0].StatusChangeDate, time.Second)

	_, err = svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{
		row("A", func(r *inout.BulkImportRow) { r.SourceName = inout.NewLoose("Amazon") }),
	}, true)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindReferenceUnresolved, e.Kind)
	assert.Equal(t, apperr.RefSource, e.RefKind)
	assert.Equal(t, []string{"Amazon"}, e.Missing)
}

func TestBulkCreateRollsBackCreatedUsersOnUnresolvedSource(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.deps)

	_, err := svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{
		row("New Customer", func(r *inout.BulkImportRow) { r.SourceName = inout.NewLoose("Nowhere") }),
	}, true)
	require.Error(t, err)

	var n int64
	require.NoError(t, f.db.Model(&admin_model.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBulkCreateValidatesRows(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.deps)

	_, err := svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{
		row("A", nil),
		row("", nil),
		row("C", func(r *inout.BulkImportRow) { r.OrderDate = inout.NewLoose("not a date") }),
	}, true)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "rows[1].userName")
	assert.Contains(t, e.Fields, "rows[2].orderDate")
	assert.NotContains(t, e.Fields, "rows[0].userName")

	_, err = svc.BulkCreate(context.Background(), "admin-1", nil, true)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestBulkCreateRejectsAmbiguousNames(t *testing.T) {
	f := newFixture(t)
	f.user(t, "Twin")
	f.user(t, "twin")
	svc := NewImportService(f.deps)

	_, err := svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{row("Twin", nil)}, true)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "rows[0].userName")
}

func TestBulkCreateDefaultsOrderDateToNow(t *testing.T) {
	f := newFixture(t)
	f.user(t, "A")
	svc := NewImportService(f.deps)

	orders, err := svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{
		row("A", func(r *inout.BulkImportRow) { r.OrderDate = inout.Loose{} }),
	}, false)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, testNow.Equal(orders[0].OrderDate))
	assert.Equal(t, admin_model.StatusOngoing, orders[0].Status)
	assert.Nil(t, orders[0].StatusChangeDate)
}

func TestBulkCreateWaitsForUserNamesLock(t *testing.T) {
	f := newFixture(t)
	imports := NewImportService(f.deps)
	users := NewUserService(f.deps)

	// 另一个管理员的导入正在创建客户
	release, err := f.deps.Locker.Acquire(context.Background(), userNamesLockKey, time.Minute, time.Second)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := imports.BulkCreate(context.Background(), "admin-2", []inout.BulkImportRow{row("Newcomer", nil)}, true)
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("import finished while user names were locked: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = users.BulkCreate(ctx, []string{"Newcomer"})
	require.Error(t, err)

	var n int64
	require.NoError(t, f.db.Model(&admin_model.User{}).Where("full_name = ?", "Newcomer").Count(&n).Error)
	assert.Zero(t, n)

	release()
	require.NoError(t, <-done)

	created, err := users.BulkCreate(context.Background(), []string{"newcomer"})
	require.NoError(t, err)
	assert.Empty(t, created)
	require.NoError(t, f.db.Model(&admin_model.User{}).Where("LOWER(full_name) = ?", "newcomer").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestBulkCreateWithoutConfirmationSkipsUserNamesLock(t *testing.T) {
	f := newFixture(t)
	f.user(t, "Alice")
	svc := NewImportService(f.deps)

	release, err := f.deps.Locker.Acquire(context.Background(), userNamesLockKey, time.Minute, time.Second)
	require.NoError(t, err)
	defer release()

	orders, err := svc.BulkCreate(context.Background(), "admin-1", []inout.BulkImportRow{row("Alice", nil)}, false)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
