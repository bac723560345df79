package router

import (
	"order-admin/controllers/admin"
	"order-admin/controllers/health"
	"order-admin/middleware"
	"order-admin/model/admin_model"
	"order-admin/pkg/config"
	"order-admin/pkg/jwt"
	"order-admin/pkg/monitoring"
	"order-admin/pkg/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Options 路由初始化参数
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Tokens   *jwt.Manager
	Sessions sessions.Store
	Version  string
}

// New 创建 gin 引擎并注册全部路由，调用前需先执行 admin.Setup
func New(opts Options) *gin.Engine {
	cfg := opts.Config
	r := gin.New()
	if len(cfg.Security.TrustedProxies) > 0 {
		_ = r.SetTrustedProxies(cfg.Security.TrustedProxies)
	}

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.Cors(middleware.DefaultCorsConfig(cfg.Security.AllowedOrigins)))
	r.Use(monitoring.PrometheusMiddleware())
	r.Use(middleware.Performance(middleware.DefaultPerformanceConfig()))
	if cfg.Security.EnableRateLimit {
		r.Use(middleware.RateLimit(cfg.Security.RateLimit))
	}

	hc := health.NewHealthController(opts.DB, opts.Version)
	r.GET("/health", hc.CheckHealth)
	r.GET("/health/live", hc.CheckLiveness)
	r.GET("/health/ready", hc.CheckReadiness)
	r.GET("/metrics", monitoring.Handler())

	api := r.Group("/api/admin")
	api.Use(middleware.RequestLogger())
	api.Use(session.Middleware(cfg.Session.Name, opts.Sessions))

	// 不需要登录的接口
	api.GET("/auth/captcha", admin.Captcha)
	api.POST("/auth/login", admin.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.Auth(opts.Tokens))
	{
		authGroup.POST("/auth/logout", admin.Logout)
		authGroup.GET("/auth/me", admin.Me)

		// 订单列表 USER 角色只能看到自己的订单
		readers := middleware.RequireRole(admin_model.RoleAdmin, admin_model.RoleUser)
		authGroup.POST("/orders/list", readers, admin.GetOrderList)
		authGroup.POST("/orders/export", readers, admin.ExportOrders)
	}

	adminGroup := authGroup.Group("")
	adminGroup.Use(middleware.AdminOnly())
	{
		adminGroup.POST("/accounts/create", admin.CreateAccount)

		adminGroup.GET("/orders/:id", admin.GetOrder)
		adminGroup.POST("/orders/create", admin.CreateOrder)
		adminGroup.POST("/orders/create/bulk", admin.BulkCreateOrders)
		adminGroup.POST("/orders/create/check-missing-user-names", admin.CheckMissingUserNames)
		adminGroup.POST("/orders/import/parse", admin.ParseOrderImport)
		adminGroup.PUT("/orders/:id/update", admin.UpdateOrder)
		adminGroup.PUT("/orders/update-status/bulk", admin.BulkUpdateOrderStatus)
		adminGroup.POST("/orders/delete", admin.DeleteOrder)
		adminGroup.POST("/orders/delete/bulk", admin.BulkDeleteOrders)

		adminGroup.POST("/operational-cost/create", admin.CreateOperationalCost)
		adminGroup.POST("/operational-cost/get-by-date", admin.GetOperationalCostByDate)
		adminGroup.POST("/transaction-balance/create", admin.CreateTransactionBalance)
		adminGroup.POST("/transaction-balance/get-by-date", admin.GetTransactionBalanceByDate)

		adminGroup.POST("/users/list", admin.GetUserList)
		adminGroup.POST("/users/create", admin.CreateUser)
		adminGroup.POST("/users/create/bulk", admin.BulkCreateUsers)
		adminGroup.PUT("/users/:id/update", admin.UpdateUser)
		adminGroup.POST("/users/delete", admin.DeleteUser)

		adminGroup.POST("/sources/list", admin.Sources.List)
		adminGroup.POST("/sources/create", admin.Sources.Create)
		adminGroup.PUT("/sources/:id/update", admin.Sources.Update)
		adminGroup.POST("/sources/delete", admin.Sources.Delete)

		adminGroup.POST("/shipping-stores/list", admin.ShippingStores.List)
		adminGroup.POST("/shipping-stores/create", admin.ShippingStores.Create)
		adminGroup.PUT("/shipping-stores/:id/update", admin.ShippingStores.Update)
		adminGroup.POST("/shipping-stores/delete", admin.ShippingStores.Delete)

		adminGroup.POST("/transactions/list", admin.GetTransactionList)
		adminGroup.POST("/transactions/create", admin.CreateTransaction)
		adminGroup.PUT("/transactions/:id/update", admin.UpdateTransaction)
		adminGroup.POST("/transactions/delete", admin.DeleteTransaction)
	}

	return r
}
