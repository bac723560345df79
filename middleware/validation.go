package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 注册自定义校验规则，字段名使用 json 名称
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return admin_model.ValidStatus(fl.Field().String())
	})
}

// BindError 把绑定错误转换为带字段信息的 Validation 错误
func BindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fieldPath(fe.Namespace())] = fieldMessage(fe)
		}
		return apperr.Validation("请求参数错误", fields)
	}

	if errors.Is(err, io.EOF) {
		return apperr.Validation("请求体为空或格式不正确", nil)
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		return apperr.Validation("JSON 格式错误", map[string]string{"body": se.Error()})
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return apperr.Validation("字段类型错误", map[string]string{te.Field: "类型应为 " + te.Type.String()})
	}
	return apperr.Validation(err.Error(), nil)
}

// fieldPath 去掉结构体名前缀，如 BulkStatusReq.ids[0] → ids[0]
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "min":
		return "不能小于 " + fe.Param()
	case "max":
		return "不能大于 " + fe.Param()
	case "oneof":
		return "必须是以下之一: " + fe.Param()
	case "order_status":
		return "未知订单状态"
	default:
		return "校验失败: " + fe.Tag()
	}
}
