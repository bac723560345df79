package admin_service

import (
	"bytes"
	"testing"
	"time"

	"order-admin/inout"
	"order-admin/model/admin_model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLooseDecimal(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{12.5, "12.5"},
		{"1,234.56", "1234.56"},
		{"$ 99", "99"},
		{"¥1,000", "1000"},
		{"abc", "0"},
		{nil, "0"},
		{"", "0"},
	}
	for _, tt := range tests {
		got := LooseDecimal(inout.NewLoose(tt.in))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%v → %s", tt.in, got)
	}
}

func TestLooseBool(t *testing.T) {
	for _, v := range []interface{}{true, 1, "1", "TRUE", "yes", "Y", "x", "✓", "✔"} {
		assert.True(t, LooseBool(inout.NewLoose(v)), "%v", v)
	}
	for _, v := range []interface{}{false, 0, "no", "", nil, "maybe"} {
		assert.False(t, LooseBool(inout.NewLoose(v)), "%v", v)
	}
}

func TestLooseStatus(t *testing.T) {
	tests := map[string]string{
		"SHIPPED":         admin_model.StatusShipped,
		"Landed in China": admin_model.StatusLandedInChina,
		"landed-in-china": admin_model.StatusLandedInChina,
		"canceled":        admin_model.StatusCancelled,
		" landed ":        admin_model.StatusLanded,
		"whatever":        admin_model.StatusOngoing,
		"":                admin_model.StatusOngoing,
	}
	for in, want := range tests {
		assert.Equal(t, want, LooseStatus(inout.NewLoose(in)), in)
	}
}

func TestLooseDate(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, shanghai)

	tests := []struct {
		in   interface{}
		want time.Time
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, shanghai)},
		{"2024-03-15 13:45:00", time.Date(2024, 3, 15, 13, 45, 0, 0, shanghai)},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, shanghai)},
		{45366, time.Date(2024, 3, 15, 0, 0, 0, 0, shanghai)},
		{"45366.5", time.Date(2024, 3, 15, 12, 0, 0, 0, shanghai)},
		{"", now},
		{nil, now},
	}
	for _, tt := range tests {
		got, ok := LooseDate(inout.NewLoose(tt.in), shanghai, now)
		require.True(t, ok, "%v", tt.in)
		assert.True(t, tt.want.Equal(got), "%v → %s", tt.in, got)
	}

	_, ok := LooseDate(inout.NewLoose("soon"), shanghai, now)
	assert.False(t, ok)
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Order Date", "User Name", "SKU", "Total Price", "Check Box", "Status", "Ignored"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024-03-15", "Alice", "SKU-1", "1,200", "x", "Shipped", "zzz"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{45366, "Bob", "SKU-2", 15.5, "", "", ""}))
	require.NoError(t, f.SetSheetRow(sheet, "A5", &[]interface{}{"", "Carol"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Alice", rows[0].UserName.String())
	assert.Equal(t, "SKU-1", rows[0].SKU.String())
	assert.True(t, LooseDecimal(rows[0].TotalPrice).Equal(decimal.NewFromInt(1200)))
	assert.True(t, LooseBool(rows[0].CheckBox))
	assert.Equal(t, admin_model.StatusShipped, LooseStatus(rows[0].Status))

	d, ok := LooseDate(rows[1].OrderDate, time.UTC, testNow)
	require.True(t, ok)
	assert.True(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).Equal(d))
	assert.True(t, LooseDecimal(rows[1].TotalPrice).Equal(decimal.RequireFromString("15.5")))

	assert.Equal(t, "Carol", rows[2].UserName.String())
	assert.True(t, rows[2].OrderDate.IsNull())
}

func TestParseWorkbookRejectsUnknownHeaders(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &[]interface{}{"foo", "bar"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ParseWorkbook(bytes.NewReader(buf.Bytes()))
	assert.Error(t, err)
}
