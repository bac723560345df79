package db

import (
	"fmt"

	"order-admin/model/admin_model"
	"order-admin/pkg/config"
	"order-admin/pkg/database"
	"order-admin/pkg/monitoring"

	"gorm.io/gorm"
)

var Dao *gorm.DB

// Init 打开数据库连接并注册连接池指标
func Init(cfg *config.Config) error {
	openDb, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(openDb, admin_model.All()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	sqlDB, err := openDb.DB()
	if err != nil {
		return err
	}
	monitoring.RegisterDBStats(sqlDB)

	Dao = openDb
	return nil
}

// Close 关闭数据库连接
func Close() error {
	return database.Close(Dao)
}
