package admin_service

import (
	"testing"
	"time"

	"order-admin/model/admin_model"
	"order-admin/pkg/audit"
	"order-admin/pkg/dbtest"
	"order-admin/pkg/events"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	deps   Deps
	events *events.MemoryPublisher
	audit  *audit.MemoryRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:     dbtest.Open(t, admin_model.All()...),
		events: &events.MemoryPublisher{},
		audit:  &audit.MemoryRecorder{},
	}
	f.deps = Deps{
		DB:       f.db,
		Location: time.UTC,
		Events:   f.events,
		Audit:    f.audit,
		Now:      func() time.Time { return testNow },
	}.withDefaults()
	return f
}

func (f *fixture) user(t *testing.T, name string) admin_model.User {
	t.Helper()
	u := admin_model.User{FullName: name}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) order(t *testing.T, userID, status string, changed *time.Time) admin_model.Order {
	t.Helper()
	o := admin_model.Order{
		OrderDate:        testNow.Add(-48 * time.Hour),
		Status:           status,
		StatusChangeDate: changed,
		UserID:           userID,
	}
	require.NoError(t, f.db.Create(&o).Error)
	return o
}

func (f *fixture) reload(t *testing.T, id string) admin_model.Order {
	t.Helper()
	var o admin_model.Order
	require.NoError(t, f.db.Where("id = ?", id).First(&o).Error)
	return o
}

func timePtr(t time.Time) *time.Time { return &t }
func strPtr(s string) *string        { return &s }
