package inout

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Loose 宽松类型的单元格值，可以是字符串、数字、布尔或 null
type Loose struct {
	raw json.RawMessage
}

// NewLoose 由任意值构造，xlsx 解析和测试使用
func NewLoose(v interface{}) Loose {
	b, err := json.Marshal(v)
	if err != nil {
		return Loose{}
	}
	return Loose{raw: b}
}

func (l *Loose) UnmarshalJSON(b []byte) error {
	l.raw = append(l.raw[:0], b...)
	return nil
}

func (l Loose) MarshalJSON() ([]byte, error) {
	if len(l.raw) == 0 {
		return []byte("null"), nil
	}
	return l.raw, nil
}

// IsNull 未提供或为 null
func (l Loose) IsNull() bool {
	raw := bytes.TrimSpace(l.raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// Bool JSON 布尔值，非布尔时 ok 为 false
func (l Loose) Bool() (value bool, ok bool) {
	switch string(bytes.TrimSpace(l.raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// String 文本形式：字符串去掉引号，数字和布尔保留字面值，null 为空
func (l Loose) String() string {
	if l.IsNull() {
		return ""
	}
	raw := bytes.TrimSpace(l.raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	if raw[0] == '{' || raw[0] == '[' {
		return ""
	}
	return string(raw)
}
