package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order-admin/pkg/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// JWT错误定义
var (
	ErrTokenExpired     = errors.New("token已过期")
	ErrTokenNotValidYet = errors.New("token尚未激活")
	ErrTokenMalformed   = errors.New("token格式错误")
	ErrTokenInvalid     = errors.New("token无效")
	ErrTokenInBlacklist = errors.New("token已被加入黑名单")
)

// Claims JWT载荷
type Claims struct {
	AccountID string `json:"uid"`
	Role      string `json:"role"`
	UserID    string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Blacklist 已注销 token 的存储
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Manager JWT管理器
type Manager struct {
	signingKey []byte
	issuer     string
	expiry     time.Duration
	blacklist  Blacklist
}

// NewManager 创建JWT管理器，blacklist 可为空
func NewManager(cfg config.JWTConfig, blacklist Blacklist) *Manager {
	key := cfg.SigningKey
	if key == "" {
		key = "order-admin-dev-signing-key" // 开发环境默认值，release 模式配置校验要求设置
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Manager{
		signingKey: []byte(key),
		issuer:     cfg.Issuer,
		expiry:     expiry,
		blacklist:  blacklist,
	}
}

// Expiry token 有效期
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}

// GenerateToken 生成token
func (m *Manager) GenerateToken(accountID, role, userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Role:      role,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

// ParseToken 解析token并检查黑名单
func (m *Manager) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名方法: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			case ve.Errors&jwt.ValidationErrorNotValidYet != 0:
				return nil, ErrTokenNotValidYet
			default:
				return nil, ErrTokenInvalid
			}
		}
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if m.blacklist != nil && claims.ID != "" {
		revoked, err := m.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenInBlacklist
		}
	}
	return claims, nil
}

// RevokeToken 注销 token，没有黑名单存储时为空操作
func (m *Manager) RevokeToken(ctx context.Context, claims *Claims) error {
	if m.blacklist == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return m.blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
