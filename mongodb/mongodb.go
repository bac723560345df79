package mongodb

import (
	"context"
	"time"

	"order-admin/pkg/config"
	"order-admin/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var client *mongo.Client

// InitMongoDB 连接 MongoDB，URI 为空时跳过
func InitMongoDB(cfg config.MongoDBConfig) error {
	if cfg.URI == "" {
		logger.Get().Info("MongoDB 未配置，导入审计日志仅写入应用日志")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return err
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return err
	}

	client = c
	logger.Get().Infof("MongoDB连接已初始化，数据库 %s", cfg.Database)
	return nil
}

// GetCollection 获取集合，未启用时返回 nil
func GetCollection(database, collection string) *mongo.Collection {
	if client == nil {
		return nil
	}
	return client.Database(database).Collection(collection)
}

// Close 断开连接
func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
