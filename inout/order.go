package inout

import (
	"order-admin/model/admin_model"
	"order-admin/pkg/query"

	"github.com/shopspring/decimal"
)

// ListReq 通用列表请求 {pagination, searchText, sort, filter}
type ListReq = query.Request

type OrderListResp struct {
	Orders     []admin_model.Order `json:"orders"`
	TotalCount int64               `json:"totalCount"`
}

// OrderCreateReq 创建订单，日期字符串按业务时区解析
type OrderCreateReq struct {
	OrderNumber       string          `json:"orderNumber" binding:"max=64"`
	OrderDate         string          `json:"orderDate" binding:"required"`
	SKU               string          `json:"sku" binding:"max=128"`
	Size              decimal.Decimal `json:"size"`
	Deposit           decimal.Decimal `json:"deposit"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	ShippingFee       decimal.Decimal `json:"shippingFee"`
	SecondShippingFee decimal.Decimal `json:"secondShippingFee"`
	DeliveryCode      string          `json:"deliveryCode" binding:"max=128"`
	CheckBox          bool            `json:"checkBox"`
	Status            string          `json:"status" binding:"omitempty,order_status"`
	UserID            string          `json:"userId" binding:"required"`
	SourceID          *string         `json:"sourceId"`
	ShippingStoreID   *string         `json:"shippingStoreId"`
}

// OrderUpdateReq 部分更新，未提供的字段保持不变
type OrderUpdateReq struct {
	OrderNumber       *string          `json:"orderNumber" binding:"omitempty,max=64"`
	OrderDate         *string          `json:"orderDate"`
	SKU               *string          `json:"sku" binding:"omitempty,max=128"`
	Size              *decimal.Decimal `json:"size"`
	Deposit           *decimal.Decimal `json:"deposit"`
	TotalPrice        *decimal.Decimal `json:"totalPrice"`
	ShippingFee       *decimal.Decimal `json:"shippingFee"`
	SecondShippingFee *decimal.Decimal `json:"secondShippingFee"`
	DeliveryCode      *string          `json:"deliveryCode" binding:"omitempty,max=128"`
	CheckBox          *bool            `json:"checkBox"`
	Status            *string          `json:"status" binding:"omitempty,order_status"`
	UserID            *string          `json:"userId"`
	SourceID          *string          `json:"sourceId"`
	ShippingStoreID   *string          `json:"shippingStoreId"`
}

type BulkStatusReq struct {
	IDs    []string `json:"ids" binding:"required,min=1,dive,required"`
	Status string   `json:"status" binding:"required,order_status"`
}

type MessageResp struct {
	Message string `json:"message"`
}

type IDReq struct {
	ID string `json:"id" binding:"required"`
}

type IDsReq struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

type DeletedResp struct {
	Deleted int64 `json:"deleted"`
}

// BulkImportRow 表格导入的一行，各字段类型宽松
type BulkImportRow struct {
	OrderDate         Loose `json:"orderDate"`
	SKU               Loose `json:"SKU"`
	Size              Loose `json:"size"`
	Deposit           Loose `json:"deposit"`
	TotalPrice        Loose `json:"totalPrice"`
	UserName          Loose `json:"userName"`
	OrderNumber       Loose `json:"orderNumber"`
	DeliveryCode      Loose `json:"deliveryCode"`
	CheckBox          Loose `json:"checkBox"`
	SourceName        Loose `json:"sourceName"`
	ShippingFee       Loose `json:"shippingFee"`
	SecondShippingFee Loose `json:"secondShippingFee"`
	ShippingStoreName Loose `json:"shippingStoreName"`
	Status            Loose `json:"status"`
}

type BulkCreateOrdersReq struct {
	Orders []BulkImportRow `json:"orders" binding:"required,min=1"`
	// CreateMissingUsers 操作员确认后为缺失的客户名称创建客户
	CreateMissingUsers bool `json:"createMissingUsers"`
}

type NamesReq struct {
	Names []string `json:"names" binding:"required"`
}

// ImportParseResp 上传表格的解析结果
type ImportParseResp struct {
	Rows         []BulkImportRow `json:"rows"`
	MissingUsers []string        `json:"missingUsers"`
	ArchiveKey   string          `json:"archiveKey,omitempty"`
}
