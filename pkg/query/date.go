package query

import (
	"strings"
	"time"
)

type dateLayout struct {
	layout   string
	dateOnly bool
	zoned    bool
}

var dateLayouts = []dateLayout{
	{layout: time.RFC3339Nano, zoned: true},
	{layout: time.RFC3339, zoned: true},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02T15:04:05"},
	{layout: "2006-01-02", dateOnly: true},
}

// ParseDate 解析日期字符串，无时区的格式按 loc 解释；dateOnly 表示只有日期部分
func ParseDate(s string, loc *time.Location) (t time.Time, dateOnly bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, l := range dateLayouts {
		var err error
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, loc)
		}
		if err == nil {
			return t, l.dateOnly, true
		}
	}
	return time.Time{}, false, false
}

// StartOfDay loc 中当天 00:00:00.000
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay loc 中当天 23:59:59.999
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// StartOfMonth loc 中当月第一天 00:00
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// EndOfMonth loc 中当月最后一天 23:59:59.999
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	return StartOfMonth(t, loc).AddDate(0, 1, 0).Add(-time.Millisecond)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
