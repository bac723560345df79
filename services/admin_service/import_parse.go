package admin_service

import (
	"strconv"
	"strings"
	"time"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/query"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var numberCleaner = strings.NewReplacer(",", "", " ", "", "$", "", "¥", "", "￥", "", "€", "", "£", "", "₫", "", " ", "")

// LooseDecimal 数字或数字字符串，去掉千分位和货币符号，无法解析时为 0
func LooseDecimal(v inout.Loose) decimal.Decimal {
	s := numberCleaner.Replace(v.String())
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var truthyMarkers = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true, "x": true, "✓": true, "✔": true,
}

// LooseBool 布尔值或勾选标记
func LooseBool(v inout.Loose) bool {
	if b, ok := v.Bool(); ok {
		return b
	}
	return truthyMarkers[strings.ToLower(v.String())]
}

var statusAliases = map[string]string{
	"CANCELED": admin_model.StatusCancelled,
}

// LooseStatus 接受枚举值或显示名称，如 "Landed in China"、"landed-in-china"；无法识别时为 ONGOING
func LooseStatus(v inout.Loose) string {
	s := strings.ToUpper(strings.TrimSpace(v.String()))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if alias, ok := statusAliases[s]; ok {
		return alias
	}
	if admin_model.ValidStatus(s) {
		return s
	}
	return admin_model.StatusOngoing
}

// LooseDate 解析订单日期：通用日期格式、MM/DD/YYYY、Excel 序列号；空值为 now
func LooseDate(v inout.Loose, loc *time.Location, now time.Time) (time.Time, bool) {
	s := v.String()
	if s == "" {
		return now, true
	}
	if t, _, ok := query.ParseDate(s, loc); ok {
		return t, true
	}
	for _, layout := range []string{"01/02/2006", "1/2/2006", "01/02/2006 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		// Excel 序列号没有时区，按业务时区的墙上时间解释
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
	}
	return time.Time{}, false
}
