package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"order-admin/pkg/apperr"

	"gorm.io/gorm"
)

// Filter 编译后的单列条件
type Filter interface {
	Column() string
	apply(db *gorm.DB, expr string) *gorm.DB
}

// EqualsFilter column = value
type EqualsFilter struct {
	Col   string
	Value any
}

func (f EqualsFilter) Column() string { return f.Col }

func (f EqualsFilter) apply(db *gorm.DB, expr string) *gorm.DB {
	return db.Where(expr+" = ?", f.Value)
}

// MembershipFilter column IN values，空数组按 Policy 处理
type MembershipFilter struct {
	Col    string
	Values []any
	Policy EmptyArrayPolicy
}

func (f MembershipFilter) Column() string { return f.Col }

func (f MembershipFilter) apply(db *gorm.DB, expr string) *gorm.DB {
	if len(f.Values) == 0 {
		if f.Policy == MatchNone {
			return db.Where("1 = 0")
		}
		return db
	}
	return db.Where(expr+" IN ?", f.Values)
}

// RangeFilter 闭区间 [From, To]，任一端可为空
type RangeFilter struct {
	Col  string
	From *time.Time
	To   *time.Time
}

func (f RangeFilter) Column() string { return f.Col }

func (f RangeFilter) apply(db *gorm.DB, expr string) *gorm.DB {
	if f.From != nil {
		db = db.Where(expr+" >= ?", f.From.UTC())
	}
	if f.To != nil {
		db = db.Where(expr+" <= ?", f.To.UTC())
	}
	return db
}

type rangeValue struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// parseFilter 把一个筛选项解析为 Filter；返回 nil 表示该项被忽略
func parseFilter(e *Entity, idx int, entry FilterEntry, loc *time.Location) (Filter, error) {
	field := fmt.Sprintf("filter[%d].value", idx)
	raw := bytes.TrimSpace(entry.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if e.isDate(entry.Column) {
		return parseRange(entry.Column, raw, loc, field)
	}

	value, err := decodeValue(raw)
	if err != nil {
		return nil, apperr.Validation("筛选值格式错误", map[string]string{field: err.Error()})
	}

	switch v := value.(type) {
	case []any:
		values := make([]any, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			switch item.(type) {
			case []any, map[string]any:
				return nil, apperr.Validation("筛选值格式错误", map[string]string{field: "数组元素必须是标量"})
			}
			values = append(values, normalizeScalar(item))
		}
		return MembershipFilter{Col: entry.Column, Values: values, Policy: e.EmptyArray}, nil
	case map[string]any:
		return nil, apperr.Validation("筛选值格式错误", map[string]string{field: "只有日期列支持区间筛选"})
	default:
		return EqualsFilter{Col: entry.Column, Value: normalizeScalar(v)}, nil
	}
}

func parseRange(column string, raw []byte, loc *time.Location, field string) (Filter, error) {
	var rv rangeValue
	if raw[0] == '"' {
		// 单个日期字符串视为当天
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, apperr.Validation("日期格式错误", map[string]string{field: err.Error()})
		}
		rv.From, rv.To = &s, &s
	} else if err := json.Unmarshal(raw, &rv); err != nil {
		return nil, apperr.Validation("日期区间格式错误", map[string]string{field: "需要 {from, to}"})
	}

	from, fromDateOnly, err := rangeBound(rv.From, loc, field)
	if err != nil {
		return nil, err
	}
	to, toDateOnly, err := rangeBound(rv.To, loc, field)
	if err != nil {
		return nil, err
	}
	if from == nil && to == nil {
		return nil, nil
	}

	if from != nil && fromDateOnly {
		start := StartOfDay(*from, loc)
		from = &start
	}
	if to != nil && toDateOnly {
		end := EndOfDay(*to, loc)
		to = &end
	}
	if from != nil && to != nil && sameDay(*from, *to, loc) {
		start, end := StartOfDay(*from, loc), EndOfDay(*to, loc)
		from, to = &start, &end
	}
	return RangeFilter{Col: column, From: from, To: to}, nil
}

func rangeBound(s *string, loc *time.Location, field string) (*time.Time, bool, error) {
	if s == nil || *s == "" {
		return nil, false, nil
	}
	t, dateOnly, ok := ParseDate(*s, loc)
	if !ok {
		return nil, false, apperr.Validation("日期格式错误", map[string]string{field: "无法解析日期: " + *s})
	}
	return &t, dateOnly, nil
}

func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// normalizeScalar json.Number 转为 int64 或 float64
func normalizeScalar(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
