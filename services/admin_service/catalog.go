package admin_service

import (
	"context"
	"strings"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/query"

	"gorm.io/gorm"
)

func namedEntity(table string) *query.Entity {
	return &query.Entity{
		Table: table,
		Columns: map[string]string{
			"id":        table + ".id",
			"name":      table + ".name",
			"note":      table + ".note",
			"createdAt": table + ".created_at",
		},
		DateColumns:  map[string]bool{"createdAt": true},
		Searchable:   []string{table + ".name", table + ".note"},
		DefaultOrder: []string{table + ".name ASC"},
	}
}

// CatalogService 按唯一名称管理的字典表（货源、集运仓）
type CatalogService[T any, PT interface {
	*T
	admin_model.Named
}] struct {
	deps      Deps
	entity    *query.Entity
	refColumn string // orders 上的外键列
	label     string
}

type (
	SourceService        = CatalogService[admin_model.Source, *admin_model.Source]
	ShippingStoreService = CatalogService[admin_model.ShippingStore, *admin_model.ShippingStore]
)

func NewSourceService(deps Deps) *SourceService {
	return &SourceService{deps: deps.withDefaults(), entity: namedEntity("sources"), refColumn: "source_id", label: "货源"}
}

func NewShippingStoreService(deps Deps) *ShippingStoreService {
	return &ShippingStoreService{deps: deps.withDefaults(), entity: namedEntity("shipping_stores"), refColumn: "shipping_store_id", label: "集运仓"}
}

func (s *CatalogService[T, PT]) List(ctx context.Context, req query.Request) (query.Page[T], error) {
	c, err := query.Compile(s.entity, req, s.deps.Location)
	if err != nil {
		return query.Page[T]{}, err
	}
	page, err := query.Run[T](ctx, s.deps.DB, c)
	if err != nil {
		return query.Page[T]{}, translateError(err, s.label+"不存在")
	}
	return page, nil
}

func (s *CatalogService[T, PT]) Create(ctx context.Context, in inout.NamedCreateReq) (PT, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation(s.label+"名称不能为空", map[string]string{"name": "required"})
	}
	row := PT(new(T))
	row.Assign(name, in.Note)

	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUnique(tx, name, ""); err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return row, nil
}

func (s *CatalogService[T, PT]) Update(ctx context.Context, id string, in inout.NamedUpdateReq) (PT, error) {
	row := PT(new(T))
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(row).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.Validation(s.label+"名称不能为空", map[string]string{"name": "required"})
			}
			if err := s.ensureUnique(tx, name, id); err != nil {
				return err
			}
			updates["name"] = name
		}
		if in.Note != nil {
			updates["note"] = *in.Note
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(row).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(row).Error
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return row, nil
}

// Delete 仍有订单引用时拒绝删除
func (s *CatalogService[T, PT]) Delete(ctx context.Context, id string) error {
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := PT(new(T))
		if err := tx.Where("id = ?", id).First(row).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&admin_model.Order{}).Where(s.refColumn+" = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict(s.label+"仍被订单引用，无法删除", nil)
		}
		return tx.Delete(row).Error
	})
	return s.translate(err)
}

// ensureUnique 名称大小写不敏感唯一，导入按同样规则匹配
func (s *CatalogService[T, PT]) ensureUnique(tx *gorm.DB, name, exceptID string) error {
	q := tx.Model(new(T)).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict(s.label+"名称已存在: "+name, nil)
	}
	return nil
}

func (s *CatalogService[T, PT]) translate(err error) error {
	if err == nil || apperr.Is(err, apperr.KindConflict) {
		return err
	}
	mapped := translateError(err, s.label+"不存在")
	if apperr.Is(mapped, apperr.KindConflict) {
		return apperr.Conflict(s.label+"名称已存在", err)
	}
	return mapped
}
