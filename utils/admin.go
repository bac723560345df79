package utils

import (
	"github.com/gin-gonic/gin"
)

// 认证中间件写入 gin.Context 的键
const (
	CtxAccountID = "uid"
	CtxRole      = "role"
	CtxUserID    = "userId"
)

// Identity 当前请求的登录身份
type Identity struct {
	AccountID string
	Role      string
	// UserID USER 角色关联的客户，ADMIN 为空
	UserID string
}

// SetIdentity 写入登录身份
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(CtxAccountID, id.AccountID)
	c.Set(CtxRole, id.Role)
	c.Set(CtxUserID, id.UserID)
}

// GetIdentity 读取登录身份
func GetIdentity(c *gin.Context) (Identity, bool) {
	accountID := c.GetString(CtxAccountID)
	if accountID == "" {
		return Identity{}, false
	}
	return Identity{
		AccountID: accountID,
		Role:      c.GetString(CtxRole),
		UserID:    c.GetString(CtxUserID),
	}, true
}

// GetAdminID 当前管理员账号ID
func GetAdminID(c *gin.Context) string {
	return c.GetString(CtxAccountID)
}
