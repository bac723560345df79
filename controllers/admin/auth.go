package admin

import (
	"net/http"
	"strings"

	"order-admin/inout"
	"order-admin/middleware"
	"order-admin/pkg/apperr"
	"order-admin/pkg/logger"
	"order-admin/pkg/response"
	"order-admin/pkg/session"
	"order-admin/utils"

	"github.com/gin-gonic/gin"
)

// Captcha 返回 SVG 验证码，验证码保存在会话中
func Captcha(c *gin.Context) {
	img, code := utils.RenderCaptcha(captcha)
	if err := session.SaveCaptcha(c, code); err != nil {
		response.Fail(c, apperr.Internal("保存验证码失败", err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", img)
}

// Login 登录，同时写入会话并返回访问令牌
func Login(c *gin.Context) {
	var params inout.LoginReq
	if !bind(c, &params) {
		return
	}
	if enableCaptcha {
		expected := session.TakeCaptcha(c)
		if expected == "" || !strings.EqualFold(expected, strings.TrimSpace(params.Captcha)) {
			response.Fail(c, apperr.Validation("验证码错误", map[string]string{"captcha": "验证码错误或已过期"}))
			return
		}
	}

	resp, err := AuthService.Login(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}

	userID := ""
	if resp.Account.UserID != nil {
		userID = *resp.Account.UserID
	}
	if err := session.Save(c, session.Identity{AccountID: resp.Account.ID, Role: resp.Account.Role, UserID: userID}); err != nil {
		response.Fail(c, apperr.Internal("保存会话失败", err))
		return
	}
	response.Success(c, resp)
}

// Logout 清除会话，Bearer 令牌加入黑名单
func Logout(c *gin.Context) {
	if err := session.Clear(c); err != nil {
		logger.WithContext(c.Request.Context()).WithError(err).Warn("清除会话失败")
	}
	if claims := middleware.Claims(c); claims != nil {
		if err := tokens.RevokeToken(c.Request.Context(), claims); err != nil {
			response.Fail(c, apperr.Internal("注销令牌失败", err))
			return
		}
	}
	response.Success(c, nil)
}

func Me(c *gin.Context) {
	account, err := AuthService.Me(c.Request.Context(), utils.GetAdminID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, account)
}

func CreateAccount(c *gin.Context) {
	var params inout.AccountCreateReq
	if !bind(c, &params) {
		return
	}
	account, err := AuthService.CreateAccount(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, account)
}
