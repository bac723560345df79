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

var UserEntity = &query.Entity{
	Table: "users",
	Columns: map[string]string{
		"id":        "users.id",
		"fullName":  "users.full_name",
		"phone":     "users.phone",
		"note":      "users.note",
		"balance":   "users.balance",
		"createdAt": "users.created_at",
	},
	DateColumns:  map[string]bool{"createdAt": true},
	Searchable:   []string{"users.full_name", "users.phone", "users.note"},
	DefaultOrder: []string{"users.full_name ASC"},
}

// UserService 客户管理
type UserService struct {
	deps Deps
}

func NewUserService(deps Deps) *UserService {
	return &UserService{deps: deps.withDefaults()}
}

func (s *UserService) List(ctx context.Context, req query.Request) (query.Page[admin_model.User], error) {
	c, err := query.Compile(UserEntity, req, s.deps.Location)
	if err != nil {
		return query.Page[admin_model.User]{}, err
	}
	page, err := query.Run[admin_model.User](ctx, s.deps.DB, c)
	if err != nil {
		return query.Page[admin_model.User]{}, translateError(err, "客户不存在")
	}
	return page, nil
}

func (s *UserService) Create(ctx context.Context, in inout.UserCreateReq) (*admin_model.User, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, apperr.Validation("客户名称不能为空", map[string]string{"fullName": "required"})
	}
	user := admin_model.User{FullName: name, Phone: in.Phone, Note: in.Note}
	if err := s.deps.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translateError(err, "客户不存在")
	}
	return &user, nil
}

// BulkCreate 按名称批量创建客户，已存在的名称（大小写不敏感）跳过
func (s *UserService) BulkCreate(ctx context.Context, names []string) ([]admin_model.User, error) {
	names = distinctNames(names)
	created := make([]admin_model.User, 0, len(names))
	if len(names) == 0 {
		return created, nil
	}

	release, err := s.deps.lockUserNames(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findUsersByName(tx, names)
		if err != nil {
			return err
		}
		for _, name := range names {
			if len(existing[strings.ToLower(name)]) == 0 {
				created = append(created, admin_model.User{FullName: name})
			}
		}
		if len(created) == 0 {
			return nil
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperr.BatchFailure("批量创建客户失败", err)
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err, "客户不存在")
	}
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id string, in inout.UserUpdateReq) (*admin_model.User, error) {
	var user admin_model.User
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.FullName != nil {
			name := strings.TrimSpace(*in.FullName)
			if name == "" {
				return apperr.Validation("客户名称不能为空", map[string]string{"fullName": "required"})
			}
			updates["full_name"] = name
		}
		if in.Phone != nil {
			updates["phone"] = *in.Phone
		}
		if in.Note != nil {
			updates["note"] = *in.Note
		}
		if in.Balance != nil {
			updates["balance"] = *in.Balance
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, translateError(err, "客户不存在")
	}
	return &user, nil
}

// Delete 仍有订单或换汇记录引用时拒绝删除
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user admin_model.User
		if err := tx.Select("id").Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		for _, ref := range []struct {
			model interface{}
			label string
		}{
			{&admin_model.Order{}, "订单"},
			{&admin_model.Transaction{}, "换汇记录"},
		} {
			var n int64
			if err := tx.Model(ref.model).Where("user_id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return apperr.Conflict("客户仍有关联的"+ref.label+"，无法删除", nil)
			}
		}
		return tx.Delete(&user).Error
	})
	return translateError(err, "客户不存在")
}
