package admin_service

import (
	"context"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/events"
	"order-admin/pkg/monitoring"
	"order-admin/pkg/query"
	"order-admin/utils"

	"gorm.io/gorm"
)

// OrderEntity 订单列表可筛选、排序和搜索的列
var OrderEntity = &query.Entity{
	Table: "orders",
	Columns: map[string]string{
		"id":                "orders.id",
		"orderNumber":       "orders.order_number",
		"orderDate":         "orders.order_date",
		"sku":               "orders.sku",
		"SKU":               "orders.sku",
		"size":              "orders.size",
		"deposit":           "orders.deposit",
		"totalPrice":        "orders.total_price",
		"shippingFee":       "orders.shipping_fee",
		"secondShippingFee": "orders.second_shipping_fee",
		"deliveryCode":      "orders.delivery_code",
		"checkBox":          "orders.check_box",
		"status":            "orders.status",
		"statusChangeDate":  "orders.status_change_date",
		"userId":            "orders.user_id",
		"sourceId":          "orders.source_id",
		"shippingStoreId":   "orders.shipping_store_id",
		"createdAt":         "orders.created_at",
		"userName":          "users.full_name",
		"sourceName":        "sources.name",
		"shippingStoreName": "shipping_stores.name",
	},
	DateColumns: map[string]bool{"orderDate": true, "statusChangeDate": true, "createdAt": true},
	Searchable: []string{
		"orders.order_number",
		"orders.sku",
		"orders.delivery_code",
		"users.full_name",
		"sources.name",
		"shipping_stores.name",
	},
	Joins: []string{
		"LEFT JOIN users ON users.id = orders.user_id",
		"LEFT JOIN sources ON sources.id = orders.source_id",
		"LEFT JOIN shipping_stores ON shipping_stores.id = orders.shipping_store_id",
	},
	Preloads:     []string{"User", "Source", "ShippingStore"},
	DefaultOrder: []string{"orders.order_date DESC", "orders.created_at DESC"},
}

type OrderService struct {
	deps Deps
}

func NewOrderService(deps Deps) *OrderService {
	return &OrderService{deps: deps.withDefaults()}
}

// compile USER 角色只能看到自己的订单
func (s *OrderService) compile(req query.Request, who utils.Identity) (*query.Compiled, error) {
	var opts []query.Option
	if who.Role != admin_model.RoleAdmin {
		if who.UserID == "" {
			return nil, apperr.Forbidden("账号未关联客户")
		}
		opts = append(opts, query.WithOwner("orders.user_id", who.UserID))
	}
	return query.Compile(OrderEntity, req, s.deps.Location, opts...)
}

// List 订单列表
func (s *OrderService) List(ctx context.Context, req query.Request, who utils.Identity) (query.Page[admin_model.Order], error) {
	c, err := s.compile(req, who)
	if err != nil {
		return query.Page[admin_model.Order]{}, err
	}
	page, err := query.Run[admin_model.Order](ctx, s.deps.DB, c)
	if err != nil {
		return query.Page[admin_model.Order]{}, translateError(err, "订单不存在")
	}
	return page, nil
}

// Get 按ID获取订单及关联
func (s *OrderService) Get(ctx context.Context, id string) (*admin_model.Order, error) {
	return s.get(s.deps.DB.WithContext(ctx), id)
}

func (s *OrderService) get(tx *gorm.DB, id string) (*admin_model.Order, error) {
	var order admin_model.Order
	err := tx.Preload("User").Preload("Source").Preload("ShippingStore").
		Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, translateError(err, "订单不存在")
	}
	return &order, nil
}

// Create 创建订单，非 ONGOING 状态直接记录状态变更时间
func (s *OrderService) Create(ctx context.Context, in inout.OrderCreateReq) (*admin_model.Order, error) {
	orderDate, err := s.deps.parseDate("orderDate", in.OrderDate)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = admin_model.StatusOngoing
	}
	if !admin_model.ValidStatus(status) {
		return nil, apperr.Validation("订单状态错误", map[string]string{"status": "未知状态: " + status})
	}

	order := admin_model.Order{
		OrderNumber:       in.OrderNumber,
		OrderDate:         orderDate,
		SKU:               in.SKU,
		Size:              in.Size,
		Deposit:           in.Deposit,
		TotalPrice:        in.TotalPrice,
		ShippingFee:       in.ShippingFee,
		SecondShippingFee: in.SecondShippingFee,
		DeliveryCode:      in.DeliveryCode,
		CheckBox:          in.CheckBox,
		Status:            status,
		StatusChangeDate:  NextStatusChangeDate(admin_model.StatusOngoing, status, nil, s.deps.Now()),
		UserID:            in.UserID,
		SourceID:          emptyToNil(in.SourceID),
		ShippingStoreID:   emptyToNil(in.ShippingStoreID),
	}

	var created *admin_model.Order
	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, &order.UserID, order.SourceID, order.ShippingStoreID); err != nil {
			return err
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		var err error
		created, err = s.get(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, translateError(err, "订单不存在")
	}

	monitoring.RecordOrdersCreated("single", 1)
	return created, nil
}

// Update 部分更新订单，状态变化时同步 statusChangeDate
func (s *OrderService) Update(ctx context.Context, id string, in inout.OrderUpdateReq) (*admin_model.Order, error) {
	var updated *admin_model.Order
	var transitioned string
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current admin_model.Order
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.OrderNumber != nil {
			updates["order_number"] = *in.OrderNumber
		}
		if in.OrderDate != nil {
			t, err := s.deps.parseDate("orderDate", *in.OrderDate)
			if err != nil {
				return err
			}
			updates["order_date"] = t
		}
		if in.SKU != nil {
			updates["sku"] = *in.SKU
		}
		if in.Size != nil {
			updates["size"] = *in.Size
		}
		if in.Deposit != nil {
			updates["deposit"] = *in.Deposit
		}
		if in.TotalPrice != nil {
			updates["total_price"] = *in.TotalPrice
		}
		if in.ShippingFee != nil {
			updates["shipping_fee"] = *in.ShippingFee
		}
		if in.SecondShippingFee != nil {
			updates["second_shipping_fee"] = *in.SecondShippingFee
		}
		if in.DeliveryCode != nil {
			updates["delivery_code"] = *in.DeliveryCode
		}
		if in.CheckBox != nil {
			updates["check_box"] = *in.CheckBox
		}
		if in.Status != nil {
			if !admin_model.ValidStatus(*in.Status) {
				return apperr.Validation("订单状态错误", map[string]string{"status": "未知状态: " + *in.Status})
			}
			if *in.Status != current.Status {
				updates["status"] = *in.Status
				updates["status_change_date"] = NextStatusChangeDate(current.Status, *in.Status, current.StatusChangeDate, s.deps.Now())
				transitioned = *in.Status
			}
		}

		sourceID, storeID := in.SourceID, in.ShippingStoreID
		if in.UserID != nil || sourceID != nil || storeID != nil {
			if err := checkReferences(tx, in.UserID, emptyToNil(sourceID), emptyToNil(storeID)); err != nil {
				return err
			}
		}
		if in.UserID != nil {
			updates["user_id"] = *in.UserID
		}
		if sourceID != nil {
			updates["source_id"] = emptyToNil(sourceID)
		}
		if storeID != nil {
			updates["shipping_store_id"] = emptyToNil(storeID)
		}

		if len(updates) > 0 {
			if err := tx.Model(&current).Updates(updates).Error; err != nil {
				return err
			}
		}
		var err error
		updated, err = s.get(tx, id)
		return err
	})
	if err != nil {
		return nil, translateError(err, "订单不存在")
	}

	if transitioned != "" {
		monitoring.RecordStatusTransitions(transitioned, 1)
		changed := events.StatusChanged{Status: transitioned, Cleared: []string{}, Stamped: []string{}}
		if transitioned == admin_model.StatusOngoing {
			changed.Cleared = append(changed.Cleared, id)
		} else {
			changed.Stamped = append(changed.Stamped, id)
		}
		s.deps.publish(ctx, events.NewEvent(events.OrderStatusChanged, changed))
	}
	return updated, nil
}

// Delete 删除订单
func (s *OrderService) Delete(ctx context.Context, id string) error {
	res := s.deps.DB.WithContext(ctx).Where("id = ?", id).Delete(&admin_model.Order{})
	if res.Error != nil {
		return translateError(res.Error, "订单不存在")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("订单不存在")
	}
	return nil
}

// BulkDelete 批量删除，返回删除数量
func (s *OrderService) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	ids = distinctIDs(ids)
	if len(ids) == 0 {
		return 0, apperr.Validation("请选择订单", map[string]string{"ids": "不能为空"})
	}
	res := s.deps.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&admin_model.Order{})
	if res.Error != nil {
		return 0, apperr.BatchFailure("批量删除订单失败", res.Error)
	}
	return res.RowsAffected, nil
}

// checkReferences 校验客户、货源、集运仓存在，nil 表示不校验
func checkReferences(tx *gorm.DB, userID, sourceID, storeID *string) error {
	checks := []struct {
		id      *string
		model   interface{}
		message string
	}{
		{userID, &admin_model.User{}, "客户不存在"},
		{sourceID, &admin_model.Source{}, "货源不存在"},
		{storeID, &admin_model.ShippingStore{}, "集运仓不存在"},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		var n int64
		if err := tx.Model(c.model).Where("id = ?", *c.id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound(c.message)
		}
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
