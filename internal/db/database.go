package db

import (
	"fmt"
	"log"
	"time"

	"go-bridge/internal/config"
	"go-bridge/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB connects to postgres and migrates the bridge tables.
func InitDB() error {
	if config.AppConfig == nil || config.AppConfig.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	dsn := config.AppConfig.Database.DSN

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("✅ database connected")

	if err := DB.AutoMigrate(
		&models.PendingTransferRecord{},
		&models.ConnectorPoolBindingRecord{},
		&models.ProcessedMessage{},
		&models.LedgerCheckpoint{},
	); err != nil {
		return fmt.Errorf("failed to migrate bridge tables: %w", err)
	}

	log.Println("✅ bridge tables migrated")
	return nil
}
