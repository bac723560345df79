// Package query 将列表请求 {pagination, searchText, sort, filter} 编译为
// 类型化的筛选条件、排序和分页窗口，再作用到 gorm 查询上。
package query

import "encoding/json"

// Pagination 分页参数，PageSize 为 0 表示不分页
type Pagination struct {
	PageIndex  int   `json:"pageIndex" binding:"min=0"`
	PageSize   int   `json:"pageSize" binding:"min=0"`
	TotalCount int64 `json:"totalCount"`
}

// Sort 排序参数，Type 为 asc 或 desc
type Sort struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

// FilterEntry 单个筛选项，Value 可以是标量、数组或 {from, to}
type FilterEntry struct {
	Column string          `json:"column" binding:"required"`
	Value  json.RawMessage `json:"value"`
}

// Request 通用列表请求
type Request struct {
	Pagination Pagination    `json:"pagination"`
	SearchText string        `json:"searchText"`
	Sort       *Sort         `json:"sort"`
	Filter     []FilterEntry `json:"filter" binding:"dive"`
}

// Page 列表查询结果
type Page[T any] struct {
	Rows       []T
	TotalCount int64
}
