package admin_model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 订单状态
const (
	StatusOngoing       = "ONGOING"
	StatusLanded        = "LANDED"
	StatusLandedInChina = "LANDED_IN_CHINA"
	StatusShipped       = "SHIPPED"
	StatusCancelled     = "CANCELLED"
)

// OrderStatuses 全部合法状态
var OrderStatuses = []string{
	StatusOngoing,
	StatusLanded,
	StatusLandedInChina,
	StatusShipped,
	StatusCancelled,
}

// ValidStatus 状态是否合法
func ValidStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	Base
	OrderNumber       string          `json:"orderNumber" gorm:"column:order_number;type:varchar(64);index"`
	OrderDate         time.Time       `json:"orderDate" gorm:"column:order_date;index"`
	SKU               string          `json:"sku" gorm:"column:sku;type:varchar(128)"`
	Size              decimal.Decimal `json:"size" gorm:"column:size;type:decimal(10,2);default:0"`
	Deposit           decimal.Decimal `json:"deposit" gorm:"column:deposit;type:decimal(14,2);default:0"`
	TotalPrice        decimal.Decimal `json:"totalPrice" gorm:"column:total_price;type:decimal(14,2);default:0"`
	ShippingFee       decimal.Decimal `json:"shippingFee" gorm:"column:shipping_fee;type:decimal(14,2);default:0"`
	SecondShippingFee decimal.Decimal `json:"secondShippingFee" gorm:"column:second_shipping_fee;type:decimal(14,2);default:0"`
	DeliveryCode      string          `json:"deliveryCode" gorm:"column:delivery_code;type:varchar(128)"`
	CheckBox          bool            `json:"checkBox" gorm:"column:check_box"`
	Status            string          `json:"status" gorm:"column:status;type:varchar(32);index"`
	// StatusChangeDate ONGOING 时为空，离开 ONGOING 时记录
	StatusChangeDate *time.Time `json:"statusChangeDate" gorm:"column:status_change_date"`
	UserID           string     `json:"userId" gorm:"column:user_id;type:varchar(36);index"`
	SourceID         *string    `json:"sourceId" gorm:"column:source_id;type:varchar(36);index"`
	ShippingStoreID  *string    `json:"shippingStoreId" gorm:"column:shipping_store_id;type:varchar(36);index"`

	User          *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Source        *Source        `json:"source,omitempty" gorm:"foreignKey:SourceID"`
	ShippingStore *ShippingStore `json:"shippingStore,omitempty" gorm:"foreignKey:ShippingStoreID"`
}

func (Order) TableName() string {
	return "orders"
}
