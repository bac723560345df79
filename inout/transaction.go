package inout

import (
	"time"

	"order-admin/model/admin_model"

	"github.com/shopspring/decimal"
)

type TransactionListResp struct {
	Transactions []admin_model.Transaction `json:"transactions"`
	TotalCount   int64                     `json:"totalCount"`
}

type TransactionCreateReq struct {
	UserID          *string          `json:"userId"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency" binding:"required,max=8"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"`
	TransactionDate string           `json:"transactionDate" binding:"required"`
	Note            string           `json:"note" binding:"max=500"`
}

type TransactionUpdateReq struct {
	UserID          *string          `json:"userId"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        *string          `json:"currency" binding:"omitempty,max=8"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"`
	TransactionDate *string          `json:"transactionDate"`
	Note            *string          `json:"note" binding:"omitempty,max=500"`
}

type OperationalCostCreateReq struct {
	Amount   decimal.Decimal `json:"amount"`
	DateTime string          `json:"dateTime" binding:"required"`
}

type TransactionBalanceCreateReq struct {
	Data     string `json:"data" binding:"required"`
	DateTime string `json:"dateTime" binding:"required"`
}

type DateTimeReq struct {
	DateTime string `json:"dateTime" binding:"required"`
}

// TransactionBalanceResp data 以 JSON 字符串返回
type TransactionBalanceResp struct {
	ID          string    `json:"id"`
	AdminID     string    `json:"adminId"`
	MonthBucket string    `json:"monthBucket"`
	DateTime    time.Time `json:"dateTime"`
	Data        string    `json:"data"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTransactionBalanceResp nil 输入返回 nil
func NewTransactionBalanceResp(b *admin_model.TransactionBalance) *TransactionBalanceResp {
	if b == nil {
		return nil
	}
	return &TransactionBalanceResp{
		ID:          b.ID,
		AdminID:     b.AdminID,
		MonthBucket: b.MonthBucket,
		DateTime:    b.DateTime,
		Data:        string(b.Data),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
