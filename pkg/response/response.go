package response

import (
	"net/http"

	"order-admin/pkg/apperr"
	"order-admin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// 统一错误码定义
const (
	SUCCESS              = 200
	INVALID_PARAMS       = apperr.CodeInvalidParams
	AUTH_ERROR           = apperr.CodeAuthError
	NOT_FOUND            = apperr.CodeNotFound
	FORBIDDEN            = apperr.CodeForbidden
	TOO_MANY_REQUESTS    = apperr.CodeTooManyRequests
	INTERNAL_ERROR       = apperr.CodeInternalError
	REFERENCE_UNRESOLVED = apperr.CodeReferenceUnresolved
	BATCH_FAILURE        = apperr.CodeBatchFailure
	CONFLICT             = apperr.CodeConflict
)

const redactedInternalMessage = "服务器内部错误"

// 错误码消息映射
var codeMsg = map[int]string{
	SUCCESS:              "OK",
	INVALID_PARAMS:       "请求参数错误",
	AUTH_ERROR:           "认证失败",
	NOT_FOUND:            "资源不存在",
	FORBIDDEN:            "访问被禁止",
	TOO_MANY_REQUESTS:    "请求过于频繁",
	INTERNAL_ERROR:       "内部服务错误",
	REFERENCE_UNRESOLVED: "存在无法识别的名称",
	BATCH_FAILURE:        "批量操作失败",
	CONFLICT:             "数据冲突",
}

// Response 统一响应结构
type Response struct {
	Success   bool        `json:"success"`
	Code      int         `json:"code"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data"`
	Errors    interface{} `json:"errors,omitempty"`
	OriginUrl string      `json:"originUrl"`
}

// MissingNames ReferenceUnresolved 的 errors 载荷
type MissingNames struct {
	Kind    string   `json:"kind"`
	Missing []string `json:"missing"`
}

// GetMsg 获取错误码对应的消息
func GetMsg(code int) string {
	if msg, exist := codeMsg[code]; exist {
		return msg
	}
	return codeMsg[INTERNAL_ERROR]
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	resp := Response{
		Success:   true,
		Code:      SUCCESS,
		Message:   GetMsg(SUCCESS),
		Data:      data,
		OriginUrl: c.Request.URL.Path,
	}
	c.Set("response", resp)
	c.JSON(http.StatusOK, resp)
}

// Error 按业务码返回错误
func Error(c *gin.Context, status, code int, message ...string) {
	msg := GetMsg(code)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}

	resp := Response{
		Code:      code,
		Message:   msg,
		OriginUrl: c.Request.URL.Path,
	}
	c.Set("response", resp)
	c.JSON(status, resp)
}

// ErrorWithData 带错误详情的错误响应
func ErrorWithData(c *gin.Context, status, code int, errs interface{}, message ...string) {
	msg := GetMsg(code)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}

	resp := Response{
		Code:      code,
		Message:   msg,
		Errors:    errs,
		OriginUrl: c.Request.URL.Path,
	}
	c.Set("response", resp)
	c.JSON(status, resp)
}

// Fail 将 error 转换为统一错误响应，未分类错误在 release 模式下隐藏细节
func Fail(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal(redactedInternalMessage, err)
	}

	status := apperr.HTTPStatus(e.Kind)
	code := apperr.Code(e.Kind)

	switch e.Kind {
	case apperr.KindValidation:
		var errs interface{}
		if len(e.Fields) > 0 {
			errs = e.Fields
		}
		ErrorWithData(c, status, code, errs, e.Message)
	case apperr.KindReferenceUnresolved:
		ErrorWithData(c, status, code, MissingNames{Kind: e.RefKind, Missing: e.Missing}, e.Message)
	case apperr.KindInternal, apperr.KindBatchFailure:
		logger.WithContext(c.Request.Context()).WithError(err).
			WithField("path", c.Request.URL.Path).Error("请求处理失败")
		msg := e.Message
		if gin.Mode() == gin.DebugMode {
			msg = err.Error()
		} else if e.Kind == apperr.KindInternal {
			msg = redactedInternalMessage
		}
		Error(c, status, code, msg)
	default:
		Error(c, status, code, e.Message)
	}
}

// Abort 中断请求并返回错误
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
