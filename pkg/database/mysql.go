package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stock_advisor/models"
	"stock_advisor/pkg/config"

	"github.com/sirupsen/logrus"
)

var DB *gorm.DB

// InitMySQL 初始化MySQL连接并迁移分析记录表
func InitMySQL(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.MySQLUser,
		cfg.MySQLPassword,
		cfg.MySQLHost,
		cfg.MySQLPort,
		cfg.MySQLDB,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("连接MySQL失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取数据库实例失败: %v", err)
	}

	// 连接池配置
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.AnalysisRecord{}); err != nil {
		return fmt.Errorf("迁移分析记录表失败: %v", err)
	}

	// 初始化全链路成功后才发布全局实例，失败时保持nil让上层降级
	DB = db
	logrus.Info("MySQL连接成功")
	return nil
}

// GetDB 获取数据库实例，未初始化时返回nil
func GetDB() *gorm.DB {
	return DB
}
