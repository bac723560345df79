package admin_model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base 所有实体共用的主键和时间戳
type Base struct {
	ID        string    `json:"id" gorm:"column:id;type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

// BeforeCreate 生成 uuid 主键
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&Account{},
		&User{},
		&Source{},
		&ShippingStore{},
		&Order{},
		&Transaction{},
		&OperationalCost{},
		&TransactionBalance{},
	}
}
