package query

// EmptyArrayPolicy 空数组筛选的处理方式
type EmptyArrayPolicy int

const (
	// IgnoreEmpty 空数组不产生任何条件
	IgnoreEmpty EmptyArrayPolicy = iota
	// MatchNone 空数组不匹配任何行
	MatchNone
)

// Entity 描述一个可查询实体：允许筛选排序的列、日期列、搜索列、关联和默认排序
type Entity struct {
	Table string
	// Columns 接口列名到 SQL 表达式的映射，也是筛选和排序的白名单
	Columns map[string]string
	// DateColumns 按 {from, to} 区间筛选的接口列名
	DateColumns map[string]bool
	// Searchable 参与模糊搜索的 SQL 表达式，按顺序 OR
	Searchable []string
	Joins      []string
	Preloads   []string
	// DefaultOrder 未指定排序时使用
	DefaultOrder []string
	EmptyArray   EmptyArrayPolicy
}

func (e *Entity) expr(column string) (string, bool) {
	expr, ok := e.Columns[column]
	return expr, ok
}

func (e *Entity) isDate(column string) bool {
	return e.DateColumns[column]
}
