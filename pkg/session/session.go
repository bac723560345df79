package session

import (
	"fmt"
	"net/http"

	"order-admin/pkg/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

// 会话中保存的键
const (
	KeyAccountID = "uid"
	KeyRole      = "role"
	KeyUserID    = "user_id"
	KeyCaptcha   = "captcha"
)

// NewStore 按配置创建 cookie 或 redis 会话存储
func NewStore(cfg config.SessionConfig, redisCfg config.RedisConfig) (sessions.Store, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		// 仅开发环境会走到这里，release 模式下配置校验要求必须设置
		secret = []byte("order-admin-dev-session-secret")
	}

	var store sessions.Store
	switch cfg.Store {
	case "redis":
		s, err := redis.NewStore(10, "tcp", redisCfg.Addr, "", redisCfg.Password, secret)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store: %w", err)
		}
		store = s
	default:
		store = cookie.NewStore(secret)
	}

	store.Options(sessions.Options{
		MaxAge:   cfg.MaxAge,
		Secure:   gin.Mode() == gin.ReleaseMode,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return store, nil
}

// Middleware 注册会话中间件
func Middleware(name string, store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(name, store)
}

// Identity 会话中的登录身份
type Identity struct {
	AccountID string
	Role      string
	UserID    string
}

// Save 登录成功后写入会话
func Save(c *gin.Context, id Identity) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(KeyAccountID, id.AccountID)
	s.Set(KeyRole, id.Role)
	s.Set(KeyUserID, id.UserID)
	return s.Save()
}

// Load 读取会话身份，未登录返回 false
func Load(c *gin.Context) (Identity, bool) {
	s := sessions.Default(c)
	accountID, _ := s.Get(KeyAccountID).(string)
	if accountID == "" {
		return Identity{}, false
	}
	role, _ := s.Get(KeyRole).(string)
	userID, _ := s.Get(KeyUserID).(string)
	return Identity{AccountID: accountID, Role: role, UserID: userID}, true
}

// Clear 注销
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{MaxAge: -1, Path: "/"})
	return s.Save()
}

// SaveCaptcha 保存验证码
func SaveCaptcha(c *gin.Context, code string) error {
	s := sessions.Default(c)
	s.Set(KeyCaptcha, code)
	return s.Save()
}

// TakeCaptcha 取出并删除验证码，只能使用一次
func TakeCaptcha(c *gin.Context) string {
	s := sessions.Default(c)
	code, _ := s.Get(KeyCaptcha).(string)
	if code != "" {
		s.Delete(KeyCaptcha)
		_ = s.Save()
	}
	return code
}
