package admin_model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction 换汇记录，按管理员隔离
type Transaction struct {
	Base
	AdminID         string          `json:"adminId" gorm:"column:admin_id;type:varchar(36);index"`
	UserID          *string         `json:"userId" gorm:"column:user_id;type:varchar(36);index"`
	Amount          decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(14,2)"`
	Currency        string          `json:"currency" gorm:"column:currency;type:varchar(8)"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate" gorm:"column:exchange_rate;type:decimal(14,6);default:1"`
	TransactionDate time.Time       `json:"transactionDate" gorm:"column:transaction_date;index"`
	Note            string          `json:"note" gorm:"column:note;type:varchar(500)"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Transaction) TableName() string {
	return "transactions"
}
