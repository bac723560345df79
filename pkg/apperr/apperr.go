// Package apperr 定义业务错误分类，以及它们到 HTTP 状态码和业务码的映射。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindReferenceUnresolved
	KindBatchFailure
	KindConflict
	KindUnauthorized
	KindForbidden
)

// 业务码，沿用 response 包的编号
const (
	CodeInvalidParams       = 20001
	CodeAuthError           = 20002
	CodeNotFound            = 20003
	CodeForbidden           = 20004
	CodeTooManyRequests     = 20005
	CodeInternalError       = 20006
	CodeReferenceUnresolved = 20007
	CodeBatchFailure        = 20008
	CodeConflict            = 20009
)

// 引用类别，用于 ReferenceUnresolved
const (
	RefUser          = "user"
	RefSource        = "source"
	RefShippingStore = "shippingStore"
)

// Error 业务错误
type Error struct {
	Kind    Kind
	Message string
	// Fields 字段级错误信息，key 为字段路径，如 rows[2].orderDate
	Fields map[string]string
	// RefKind 和 Missing 只在 KindReferenceUnresolved 时使用
	RefKind string
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 参数校验错误
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// InvalidFilterColumn 未知的筛选或排序列
func InvalidFilterColumn(column string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "不支持的筛选列: " + column,
		Fields:  map[string]string{"column": column},
	}
}

// NotFound 资源不存在
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// ReferenceUnresolved 导入行中的名称无法解析
func ReferenceUnresolved(refKind string, missing []string) *Error {
	return &Error{
		Kind:    KindReferenceUnresolved,
		Message: fmt.Sprintf("以下%s名称不存在: %s", refLabel(refKind), strings.Join(missing, ", ")),
		RefKind: refKind,
		Missing: missing,
	}
}

// BatchFailure 批量操作整体失败
func BatchFailure(message string, err error) *Error {
	return &Error{Kind: KindBatchFailure, Message: message, Err: err}
}

// Conflict 唯一键冲突或并发冲突
func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// Unauthorized 未登录
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden 无权限
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Internal 包装未分类错误
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// As 提取业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is 判断错误类别
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// HTTPStatus 错误类别对应的 HTTP 状态码
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindReferenceUnresolved:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindBatchFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Code 错误类别对应的业务码
func Code(kind Kind) int {
	switch kind {
	case KindValidation:
		return CodeInvalidParams
	case KindNotFound:
		return CodeNotFound
	case KindReferenceUnresolved:
		return CodeReferenceUnresolved
	case KindBatchFailure:
		return CodeBatchFailure
	case KindConflict:
		return CodeConflict
	case KindUnauthorized:
		return CodeAuthError
	case KindForbidden:
		return CodeForbidden
	default:
		return CodeInternalError
	}
}

func refLabel(refKind string) string {
	switch refKind {
	case RefUser:
		return "客户"
	case RefSource:
		return "货源"
	case RefShippingStore:
		return "集运仓"
	default:
		return ""
	}
}
