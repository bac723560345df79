package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-admin/controllers/admin"
	"order-admin/db"
	"order-admin/middleware"
	"order-admin/mongodb"
	"order-admin/pkg/audit"
	"order-admin/pkg/config"
	"order-admin/pkg/events"
	"order-admin/pkg/jwt"
	"order-admin/pkg/lock"
	"order-admin/pkg/logger"
	"order-admin/pkg/session"
	"order-admin/pkg/storage"
	"order-admin/redis"
	"order-admin/router"
	"order-admin/services/admin_service"
	"order-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// 构建时注入的变量
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-version", "--version", "-v":
			fmt.Printf("Order Admin\n")
			fmt.Printf("Version: %s\n", Version)
			fmt.Printf("Build Time: %s\n", BuildTime)
			fmt.Printf("Git Commit: %s\n", GitCommit)
			return
		}
	}

	if err := config.InitConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()

	gin.SetMode(cfg.Server.Mode)
	decimal.MarshalJSONWithoutQuotes = true

	loc, err := cfg.Business.Location()
	if err != nil {
		log.WithError(err).Fatal("无法加载时区")
	}

	if err := db.Init(cfg); err != nil {
		log.WithError(err).Fatal("数据库初始化失败")
	}
	defer db.Close()

	deps := admin_service.Deps{
		DB:       db.Dao,
		Location: loc,
		Events:   events.NopPublisher{},
		Audit:    audit.LogRecorder{},
		Locker:   lock.NewLocalLocker(),
		Archiver: storage.NopArchiver{},
	}

	var blacklist jwt.Blacklist
	if cfg.Redis.Addr != "" {
		if err := redis.InitRedis(cfg.Redis); err != nil {
			log.WithError(err).Warn("Redis 不可用，使用进程内锁")
		} else {
			defer redis.CloseRedis()
			deps.Locker = lock.NewRedisLocker(redis.GetClient(), "order-admin:lock:")
			blacklist = redis.NewTokenBlacklist(redis.GetClient())
		}
	}

	if cfg.MongoDB.URI != "" {
		if err := mongodb.InitMongoDB(cfg.MongoDB); err != nil {
			log.WithError(err).Warn("MongoDB 不可用，导入审计改为写日志")
		} else {
			defer mongodb.Close(context.Background())
			deps.Audit = audit.NewMongoRecorder(mongodb.GetCollection(cfg.MongoDB.Database, cfg.MongoDB.AuditCollection))
		}
	}

	if cfg.AMQP.URL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.WithError(err).Warn("AMQP 不可用，领域事件不会发布")
		} else {
			defer publisher.Close()
			deps.Events = publisher
		}
	}

	if cfg.Storage.Enabled() {
		archiver, err := storage.NewTOSArchiver(cfg.Storage)
		if err != nil {
			log.WithError(err).Warn("对象存储不可用，导入文件不归档")
		} else {
			defer archiver.Close()
			deps.Archiver = archiver
		}
	}

	tokens := jwt.NewManager(cfg.JWT, blacklist)

	sessionStore, err := session.NewStore(cfg.Session, cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("会话存储初始化失败")
	}

	if err := middleware.RegisterValidators(); err != nil {
		log.WithError(err).Fatal("注册校验器失败")
	}

	admin.Setup(deps, admin.Options{
		Tokens:        tokens,
		EnableCaptcha: cfg.Security.EnableCaptcha,
		Captcha: utils.CaptchaOptions{
			Length:   cfg.Security.CaptchaLength,
			Alphabet: cfg.Security.CaptchaAlphabet,
		},
	})

	if err := admin.AuthService.EnsureAdmin(context.Background(), cfg.Security.AdminUsername, cfg.Security.AdminPassword); err != nil {
		log.WithError(err).Fatal("初始化管理员账号失败")
	}

	app := router.New(router.Options{
		Config:   cfg,
		DB:       db.Dao,
		Tokens:   tokens,
		Sessions: sessionStore,
		Version:  Version,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("服务器启动在端口 :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("服务启动失败")
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("服务器强制关闭")
	}

	log.Info("服务器已安全关闭")
}
