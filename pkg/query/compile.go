package query

import (
	"math"
	"strings"
	"time"

	"order-admin/pkg/apperr"

	"gorm.io/gorm"
)

// Compiled 编译后的查询，可重复作用到 gorm 查询
type Compiled struct {
	entity  *Entity
	filters []Filter
	search  string
	order   []string
	offset  int
	limit   int // 0 表示不分页
	beyond  bool
	owner   *ownerScope
}

type ownerScope struct {
	column string
	value  any
}

// Option 编译选项
type Option func(*Compiled)

// WithOwner 限制结果只包含 column = value 的行
func WithOwner(column string, value any) Option {
	return func(c *Compiled) {
		c.owner = &ownerScope{column: column, value: value}
	}
}

// Compile 校验并编译列表请求，未知列返回 InvalidFilterColumn
func Compile(e *Entity, req Request, loc *time.Location, opts ...Option) (*Compiled, error) {
	if loc == nil {
		loc = time.UTC
	}
	if req.Pagination.PageIndex < 0 || req.Pagination.PageSize < 0 {
		return nil, apperr.Validation("分页参数错误", map[string]string{"pagination": "pageIndex 和 pageSize 不能为负数"})
	}

	c := &Compiled{entity: e, search: strings.TrimSpace(req.SearchText)}
	for _, opt := range opts {
		opt(c)
	}

	for i, entry := range req.Filter {
		if _, ok := e.expr(entry.Column); !ok {
			return nil, apperr.InvalidFilterColumn(entry.Column)
		}
		f, err := parseFilter(e, i, entry, loc)
		if err != nil {
			return nil, err
		}
		if f != nil {
			c.filters = append(c.filters, f)
		}
	}

	if req.Sort != nil && req.Sort.Column != "" {
		expr, ok := e.expr(req.Sort.Column)
		if !ok {
			return nil, apperr.InvalidFilterColumn(req.Sort.Column)
		}
		dir, err := direction(req.Sort.Type)
		if err != nil {
			return nil, err
		}
		c.order = []string{expr + " " + dir}
	} else {
		c.order = append(c.order, e.DefaultOrder...)
	}
	c.order = append(c.order, e.Table+".id ASC")

	if req.Pagination.PageSize > 0 {
		c.limit = req.Pagination.PageSize
		// 偏移量溢出时不可能有数据，直接返回空页
		if req.Pagination.PageIndex > math.MaxInt/req.Pagination.PageSize {
			c.beyond = true
		} else {
			c.offset = req.Pagination.PageIndex * req.Pagination.PageSize
		}
	}
	return c, nil
}

func direction(t string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "asc":
		return "ASC", nil
	case "desc":
		return "DESC", nil
	default:
		return "", apperr.Validation("排序方向错误", map[string]string{"sort.type": "只能是 asc 或 desc"})
	}
}

// Filters 编译出的筛选条件
func (c *Compiled) Filters() []Filter {
	return c.filters
}

// Where 作用关联、归属、筛选和搜索条件，不包含排序和分页
func (c *Compiled) Where(db *gorm.DB) *gorm.DB {
	for _, join := range c.entity.Joins {
		db = db.Joins(join)
	}
	if c.owner != nil {
		db = db.Where(c.owner.column+" = ?", c.owner.value)
	}
	for _, f := range c.filters {
		expr, _ := c.entity.expr(f.Column())
		db = f.apply(db, expr)
	}
	if c.search != "" && len(c.entity.Searchable) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(c.search)) + "%"
		parts := make([]string, 0, len(c.entity.Searchable))
		args := make([]any, 0, len(c.entity.Searchable))
		for _, expr := range c.entity.Searchable {
			parts = append(parts, "LOWER("+expr+") LIKE ? ESCAPE '!'")
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return db
}

// Window 作用排序、分页和预加载
func (c *Compiled) Window(db *gorm.DB) *gorm.DB {
	if c.beyond {
		return db.Where("1 = 0")
	}
	for _, o := range c.order {
		db = db.Order(o)
	}
	if c.limit > 0 {
		db = db.Offset(c.offset).Limit(c.limit)
	}
	for _, p := range c.entity.Preloads {
		db = db.Preload(p)
	}
	return db
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
