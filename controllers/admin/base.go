package admin

import (
	"order-admin/middleware"
	"order-admin/pkg/jwt"
	"order-admin/pkg/lock"
	"order-admin/pkg/response"
	"order-admin/services/admin_service"
	"order-admin/utils"

	"github.com/gin-gonic/gin"
)

var (
	OrderService              *admin_service.OrderService
	ImportService             *admin_service.ImportService
	UserService               *admin_service.UserService
	SourceService             *admin_service.SourceService
	ShippingStoreService      *admin_service.ShippingStoreService
	TransactionService        *admin_service.TransactionService
	OperationalCostService    *admin_service.OperationalCostService
	TransactionBalanceService *admin_service.TransactionBalanceService
	AuthService               *admin_service.AuthService

	tokens        *jwt.Manager
	enableCaptcha bool
	captcha       utils.CaptchaOptions
)

// Options 控制器初始化参数
type Options struct {
	Tokens        *jwt.Manager
	EnableCaptcha bool
	Captcha       utils.CaptchaOptions
}

// Setup 用同一组依赖初始化全部服务
func Setup(deps admin_service.Deps, opts Options) {
	// 客户名称锁跨服务生效，各服务必须共用同一个 Locker
	if deps.Locker == nil {
		deps.Locker = lock.NewLocalLocker()
	}
	OrderService = admin_service.NewOrderService(deps)
	ImportService = admin_service.NewImportService(deps)
	UserService = admin_service.NewUserService(deps)
	SourceService = admin_service.NewSourceService(deps)
	ShippingStoreService = admin_service.NewShippingStoreService(deps)
	TransactionService = admin_service.NewTransactionService(deps)
	OperationalCostService = admin_service.NewOperationalCostService(deps)
	TransactionBalanceService = admin_service.NewTransactionBalanceService(deps)
	AuthService = admin_service.NewAuthService(deps, opts.Tokens)

	tokens = opts.Tokens
	enableCaptcha = opts.EnableCaptcha
	captcha = opts.Captcha
}

// bind 绑定 JSON 请求体，失败时直接写入错误响应
func bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Fail(c, middleware.BindError(err))
		return false
	}
	return true
}
