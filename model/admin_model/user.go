package admin_model

import "github.com/shopspring/decimal"

// User 客户，导入时按 FullName 匹配
type User struct {
	Base
	FullName string          `json:"fullName" gorm:"column:full_name;type:varchar(255);index"`
	Phone    string          `json:"phone" gorm:"column:phone;type:varchar(32)"`
	Note     string          `json:"note" gorm:"column:note;type:varchar(500)"`
	Balance  decimal.Decimal `json:"balance" gorm:"column:balance;type:decimal(14,2);default:0"`
}

func (User) TableName() string {
	return "users"
}

// Source 货源
type Source struct {
	Base
	Name string `json:"name" gorm:"column:name;type:varchar(255);uniqueIndex"`
	Note string `json:"note" gorm:"column:note;type:varchar(500)"`
}

func (Source) TableName() string {
	return "sources"
}

// ShippingStore 集运仓
type ShippingStore struct {
	Base
	Name string `json:"name" gorm:"column:name;type:varchar(255);uniqueIndex"`
	Note string `json:"note" gorm:"column:note;type:varchar(500)"`
}

func (ShippingStore) TableName() string {
	return "shipping_stores"
}

// Named 货源和集运仓共用的名称字段
type Named interface {
	Assign(name, note string)
	DisplayName() string
}

func (s *Source) Assign(name, note string) { s.Name, s.Note = name, note }
func (s Source) DisplayName() string       { return s.Name }

func (s *ShippingStore) Assign(name, note string) { s.Name, s.Note = name, note }
func (s ShippingStore) DisplayName() string       { return s.Name }
