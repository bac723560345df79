package inout

import (
	"order-admin/model/admin_model"

	"github.com/shopspring/decimal"
)

type UserListResp struct {
	Users      []admin_model.User `json:"users"`
	TotalCount int64              `json:"totalCount"`
}

type UserCreateReq struct {
	FullName string `json:"fullName" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"max=32"`
	Note     string `json:"note" binding:"max=500"`
}

type UserUpdateReq struct {
	FullName *string          `json:"fullName" binding:"omitempty,min=1,max=255"`
	Phone    *string          `json:"phone" binding:"omitempty,max=32"`
	Note     *string          `json:"note" binding:"omitempty,max=500"`
	Balance  *decimal.Decimal `json:"balance"`
}

type NamedListResp struct {
	Items      interface{} `json:"items"`
	TotalCount int64       `json:"totalCount"`
}

// NamedCreateReq 货源和集运仓共用
type NamedCreateReq struct {
	Name string `json:"name" binding:"required,max=255"`
	Note string `json:"note" binding:"max=500"`
}

type NamedUpdateReq struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
	Note *string `json:"note" binding:"omitempty,max=500"`
}
