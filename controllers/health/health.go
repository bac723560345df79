package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"order-admin/pkg/apperr"
	"order-admin/pkg/database"
	"order-admin/pkg/response"
	"order-admin/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// startTime 应用启动时间
var startTime = time.Now()

// HealthController 健康检查控制器
type HealthController struct {
	db      *gorm.DB
	version string
}

func NewHealthController(db *gorm.DB, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// CheckHealth 数据库、Redis 状态及连接池统计
func (h *HealthController) CheckHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := gin.H{"status": "ok", "stats": database.GetStats(h.db)}
	if err := database.HealthCheck(ctx, h.db); err != nil {
		status = "degraded"
		dbStatus["status"] = "down"
		dbStatus["error"] = err.Error()
	}

	redisStatus := "disabled"
	if redis.GetClient() != nil {
		redisStatus = "ok"
		if !redis.IsConnected(ctx) {
			redisStatus = "down"
			status = "degraded"
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response.Success(c, gin.H{
		"status":    status,
		"version":   h.version,
		"uptime":    time.Since(startTime).String(),
		"database":  dbStatus,
		"redis":     redisStatus,
		"goroutine": runtime.NumGoroutine(),
		"memory_mb": m.Alloc / 1024 / 1024,
		"timestamp": time.Now().Unix(),
	})
}

// CheckLiveness 存活性检查
func (h *HealthController) CheckLiveness(c *gin.Context) {
	response.Success(c, gin.H{"status": "alive", "timestamp": time.Now().Unix()})
}

// CheckReadiness 数据库不可用时返回 503
func (h *HealthController) CheckReadiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		response.Error(c, http.StatusServiceUnavailable, apperr.CodeInternalError, "service not ready: "+err.Error())
		return
	}
	response.Success(c, gin.H{"status": "ready", "timestamp": time.Now().Unix()})
}
