package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"order-admin/pkg/config"
	"order-admin/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var (
	rdb      *redis.Client
	initOnce sync.Once
	initErr  error
	ErrNil   = errors.New("redis: nil")
)

// InitRedis 初始化 Redis 客户端，未配置地址时跳过
func InitRedis(cfg config.RedisConfig) error {
	if cfg.Addr == "" {
		logger.Get().Info("Redis 未配置，导入锁使用进程内实现")
		return nil
	}

	initOnce.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			PoolSize:     cfg.PoolSize,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			initErr = fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
			_ = client.Close()
			return
		}

		rdb = client
		logger.Get().Infof("Successfully connected to Redis at %s, DB: %d", cfg.Addr, cfg.DB)
	})

	return initErr
}

// GetClient 获取 Redis 客户端，未启用时返回 nil
func GetClient() *redis.Client {
	return rdb
}

// IsConnected 检查 Redis 是否已连接
func IsConnected(ctx context.Context) bool {
	if rdb == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return rdb.Ping(ctx).Err() == nil
}

// CloseRedis 关闭 Redis 连接
func CloseRedis() error {
	if rdb != nil {
		logger.Get().Info("Closing Redis connection")
		return rdb.Close()
	}
	return nil
}

// TokenBlacklist 基于 Redis 的 token 黑名单
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke 将 jti 加入黑名单直到 token 过期
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, "token_blacklist:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked jti 是否在黑名单中
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, "token_blacklist:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}
