package admin_service

import (
	"context"
	"testing"
	"time"

	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatusChangeDate(t *testing.T) {
	prev := testNow.Add(-72 * time.Hour)

	tests := []struct {
		name     string
		current  string
		next     string
		previous *time.Time
		want     *time.Time
	}{
		{"unchanged keeps previous", admin_model.StatusShipped, admin_model.StatusShipped, &prev, &prev},
		{"unchanged ongoing stays nil", admin_model.StatusOngoing, admin_model.StatusOngoing, nil, nil},
		{"back to ongoing clears", admin_model.StatusShipped, admin_model.StatusOngoing, &prev, nil},
		{"leaving ongoing stamps", admin_model.StatusOngoing, admin_model.StatusLanded, nil, &testNow},
		{"switching between non-ongoing stamps", admin_model.StatusLanded, admin_model.StatusShipped, &prev, &testNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatusChangeDate(tt.current, tt.next, tt.previous, testNow)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

func TestPartitionStatusUpdate(t *testing.T) {
	current := map[string]string{
		"a": admin_model.StatusOngoing,
		"b": admin_model.StatusShipped,
		"c": admin_model.StatusLanded,
	}

	p := PartitionStatusUpdate([]string{"a", "b", "c"}, current, admin_model.StatusShipped)
	assert.Equal(t, []string{"b"}, p.Unchanged)
	assert.Equal(t, []string{"a", "c"}, p.ToStamp)
	assert.Empty(t, p.ToClear)

	p = PartitionStatusUpdate([]string{"a", "b", "c"}, current, admin_model.StatusOngoing)
	assert.Equal(t, []string{"a"}, p.Unchanged)
	assert.Equal(t, []string{"b", "c"}, p.ToClear)
	assert.Empty(t, p.ToStamp)

	n := len(p.ToClear) + len(p.ToStamp) + len(p.Unchanged)
	assert.Equal(t, 3, n)
}

func TestBulkUpdateStatus(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.deps)
	u := f.user(t, "Alice")
	old := testNow.Add(-96 * time.Hour)

	ongoing := f.order(t, u.ID, admin_model.StatusOngoing, nil)
	shipped := f.order(t, u.ID, admin_model.StatusShipped, &old)
	landed := f.order(t, u.ID, admin_model.StatusLanded, &old)

	p, err := svc.BulkUpdateStatus(context.Background(), []string{ongoing.ID, shipped.ID, landed.ID}, admin_model.StatusShipped)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ongoing.ID, landed.ID}, p.ToStamp)
	assert.Equal(t, []string{shipped.ID}, p.Unchanged)

	got := f.reload(t, ongoing.ID)
	assert.Equal(t, admin_model.StatusShipped, got.Status)
	require.NotNil(t, got.StatusChangeDate)
	assert.WithinDuration(t, testNow, *got.StatusChangeDate, time.Second)

	got = f.reload(t, shipped.ID)
	require.NotNil(t, got.StatusChangeDate)
	assert.WithinDuration(t, old, *got.StatusChangeDate, time.Second)

	_, err = svc.BulkUpdateStatus(context.Background(), []string{landed.ID, shipped.ID}, admin_model.StatusOngoing)
	require.NoError(t, err)
	assert.Nil(t, f.reload(t, landed.ID).StatusChangeDate)
	assert.Equal(t, admin_model.StatusOngoing, f.reload(t, shipped.ID).Status)

	published := f.events.Events()
	require.Len(t, published, 2)
	assert.Equal(t, events.OrderStatusChanged, published[0].Type)
}

func TestBulkUpdateStatusUnknownIDWritesNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.deps)
	u := f.user(t, "Alice")
	o := f.order(t, u.ID, admin_model.StatusOngoing, nil)

	_, err := svc.BulkUpdateStatus(context.Background(), []string{o.ID, "missing-id"}, admin_model.StatusLanded)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "missing-id")

	got := f.reload(t, o.ID)
	assert.Equal(t, admin_model.StatusOngoing, got.Status)
	assert.Nil(t, got.StatusChangeDate)
	assert.Empty(t, f.events.Events())
}

func TestBulkUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := NewOrderService(f.deps).BulkUpdateStatus(context.Background(), []string{"x"}, "LOST")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
