package admin_service

import (
	"context"
	"errors"
	"strings"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/jwt"
	"order-admin/pkg/logger"
	"order-admin/pkg/monitoring"
	"order-admin/pkg/security"

	"gorm.io/gorm"
)

// AuthService 后台账号登录与管理
type AuthService struct {
	deps   Deps
	tokens *jwt.Manager
}

func NewAuthService(deps Deps, tokens *jwt.Manager) *AuthService {
	return &AuthService{deps: deps.withDefaults(), tokens: tokens}
}

// Login 校验用户名密码并签发访问令牌；用户名不存在和密码错误返回同样的错误
func (s *AuthService) Login(ctx context.Context, in inout.LoginReq) (*inout.LoginResp, error) {
	var account admin_model.Account
	err := s.deps.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(in.Username)).First(&account).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateError(err, "账号不存在")
	}
	if err != nil || !security.CheckPasswordHash(in.Password, account.PasswordHash) {
		monitoring.RecordLogin("bad_credentials")
		return nil, apperr.Unauthorized("用户名或密码错误")
	}
	if !account.Enabled {
		monitoring.RecordLogin("disabled")
		return nil, apperr.Unauthorized("账号已被禁用")
	}

	userID := ""
	if account.UserID != nil {
		userID = *account.UserID
	}
	token, err := s.tokens.GenerateToken(account.ID, account.Role, userID)
	if err != nil {
		return nil, apperr.Internal("生成令牌失败", err)
	}

	monitoring.RecordLogin("success")
	return &inout.LoginResp{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.Expiry().Seconds()),
		Account:     account,
	}, nil
}

// Me 当前登录账号
func (s *AuthService) Me(ctx context.Context, accountID string) (*admin_model.Account, error) {
	var account admin_model.Account
	if err := s.deps.DB.WithContext(ctx).Where("id = ?", accountID).First(&account).Error; err != nil {
		return nil, translateError(err, "账号不存在")
	}
	return &account, nil
}

// CreateAccount 创建账号，USER 角色必须关联已存在的客户
func (s *AuthService) CreateAccount(ctx context.Context, in inout.AccountCreateReq) (*admin_model.Account, error) {
	if err := security.ValidatePasswordStrength(in.Password); err != nil {
		return nil, apperr.Validation("密码不符合要求", map[string]string{"password": err.Error()})
	}
	if !admin_model.ValidRole(in.Role) {
		return nil, apperr.Validation("角色错误", map[string]string{"role": in.Role})
	}
	userID := emptyToNil(in.UserID)
	if in.Role == admin_model.RoleUser && userID == nil {
		return nil, apperr.Validation("USER 账号必须关联客户", map[string]string{"userId": "required"})
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("密码加密失败", err)
	}
	account := admin_model.Account{
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Role:         in.Role,
		UserID:       userID,
		Enabled:      true,
	}

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&admin_model.Account{}).Where("username = ?", account.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict("用户名已存在", nil)
		}
		if err := checkReferences(tx, userID, nil, nil); err != nil {
			return err
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, translateError(err, "客户不存在")
	}
	return &account, nil
}

// EnsureAdmin 没有任何 ADMIN 账号时用给定用户名密码创建一个
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	var n int64
	if err := s.deps.DB.WithContext(ctx).Model(&admin_model.Account{}).Where("role = ?", admin_model.RoleAdmin).Count(&n).Error; err != nil {
		return translateError(err, "账号不存在")
	}
	if n > 0 {
		return nil
	}
	_, err := s.CreateAccount(ctx, inout.AccountCreateReq{Username: username, Password: password, Role: admin_model.RoleAdmin})
	if err == nil {
		logger.WithComponent(ctx, "auth").WithField("username", username).Info("已创建初始管理员账号")
	}
	return err
}
