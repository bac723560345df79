package admin_model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const MonthBucketLayout = "2006-01"

// MonthKeyed 按 (管理员, 月份) 唯一的记录
type MonthKeyed interface {
	SetMonthKey(adminID, bucket string, dateTime time.Time)
	// PayloadColumns 冲突时需要覆盖的列
	PayloadColumns() []string
}

// OperationalCost 月度运营成本
type OperationalCost struct {
	Base
	AdminID     string          `json:"adminId" gorm:"column:admin_id;type:varchar(36);uniqueIndex:idx_operational_cost_month,priority:1"`
	MonthBucket string          `json:"monthBucket" gorm:"column:month_bucket;type:varchar(7);uniqueIndex:idx_operational_cost_month,priority:2"`
	DateTime    time.Time       `json:"dateTime" gorm:"column:date_time"`
	Amount      decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(14,2)"`
}

func (OperationalCost) TableName() string {
	return "operational_costs"
}

func (c *OperationalCost) SetMonthKey(adminID, bucket string, dateTime time.Time) {
	c.AdminID, c.MonthBucket, c.DateTime = adminID, bucket, dateTime
}

func (OperationalCost) PayloadColumns() []string {
	return []string{"amount"}
}

// TransactionBalance 月度余额表，data 为前端序列化的 JSON
type TransactionBalance struct {
	Base
	AdminID     string         `json:"adminId" gorm:"column:admin_id;type:varchar(36);uniqueIndex:idx_transaction_balance_month,priority:1"`
	MonthBucket string         `json:"monthBucket" gorm:"column:month_bucket;type:varchar(7);uniqueIndex:idx_transaction_balance_month,priority:2"`
	DateTime    time.Time      `json:"dateTime" gorm:"column:date_time"`
	Data        datatypes.JSON `json:"data" gorm:"column:data"`
}

func (TransactionBalance) TableName() string {
	return "transaction_balances"
}

func (b *TransactionBalance) SetMonthKey(adminID, bucket string, dateTime time.Time) {
	b.AdminID, b.MonthBucket, b.DateTime = adminID, bucket, dateTime
}

func (TransactionBalance) PayloadColumns() []string {
	return []string{"data"}
}
