package middleware

import (
	"context"
	"errors"
	"strings"

	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/jwt"
	"order-admin/pkg/logger"
	"order-admin/pkg/response"
	"order-admin/pkg/session"
	"order-admin/utils"

	"github.com/gin-gonic/gin"
)

// ctxClaims Bearer 登录时保存解析后的 claims，注销时使用
const ctxClaims = "claims"

// Auth 登录校验：优先使用会话，其次 Authorization: Bearer
func Auth(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := session.Load(c); ok {
			setIdentity(c, utils.Identity{AccountID: id.AccountID, Role: id.Role, UserID: id.UserID})
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			response.Abort(c, apperr.Unauthorized("请先登录"))
			return
		}

		claims, err := tokens.ParseToken(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, apperr.Unauthorized(tokenErrorMessage(err)))
			return
		}

		c.Set(ctxClaims, claims)
		setIdentity(c, utils.Identity{AccountID: claims.AccountID, Role: claims.Role, UserID: claims.UserID})
		c.Next()
	}
}

// Claims Bearer 登录时的 claims，会话登录时为 nil
func Claims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		claims, _ := v.(*jwt.Claims)
		return claims
	}
	return nil
}

func setIdentity(c *gin.Context, id utils.Identity) {
	utils.SetIdentity(c, id)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.AccountIDKey, id.AccountID))
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "授权已过期"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token格式错误"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token尚未激活"
	case errors.Is(err, jwt.ErrTokenInBlacklist):
		return "token已注销"
	default:
		return "token无效"
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// RequireRole 角色权限检查，需在 Auth 之后使用
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := utils.GetIdentity(c)
		if !ok {
			response.Abort(c, apperr.Unauthorized("请先登录"))
			return
		}

		for _, role := range allowedRoles {
			if id.Role == role {
				c.Next()
				return
			}
		}

		response.Abort(c, apperr.Forbidden("无权限访问此资源"))
	}
}

// AdminOnly 仅 ADMIN
func AdminOnly() gin.HandlerFunc {
	return RequireRole(admin_model.RoleAdmin)
}
