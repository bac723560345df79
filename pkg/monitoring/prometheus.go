package monitoring

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus 指标定义
var (
	// HTTP 请求相关指标
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// 业务相关指标
	ordersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "创建订单总数",
		},
		[]string{"path"}, // single 或 bulk
	)

	bulkImports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_bulk_imports_total",
			Help: "批量导入次数",
		},
		[]string{"outcome"},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "订单状态变更数",
		},
		[]string{"status"},
	)

	monthlyUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monthly_aggregate_upserts_total",
			Help: "月度数据写入次数",
		},
		[]string{"kind"},
	)

	userLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_logins_total",
			Help: "账号登录次数",
		},
		[]string{"result"},
	)
)

// PrometheusMiddleware Gin中间件，用于收集HTTP指标
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		statusCode := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, statusCode).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 接口
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RegisterDBStats 注册数据库连接池指标，重复注册时忽略
func RegisterDBStats(db *sql.DB) {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, "order_admin"))
	var are prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &are) {
		panic(err)
	}
}

func RecordOrdersCreated(path string, n int) {
	ordersCreated.WithLabelValues(path).Add(float64(n))
}

func RecordBulkImport(outcome string) {
	bulkImports.WithLabelValues(outcome).Inc()
}

func RecordStatusTransitions(status string, n int) {
	if n > 0 {
		statusTransitions.WithLabelValues(status).Add(float64(n))
	}
}

func RecordMonthlyUpsert(kind string) {
	monthlyUpserts.WithLabelValues(kind).Inc()
}

func RecordLogin(result string) {
	userLogins.WithLabelValues(result).Inc()
}
