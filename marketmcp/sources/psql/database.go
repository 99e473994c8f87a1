package psql

import (
	"context"
	"fmt"
	"marketmcp/marketmcp/sources/psql/models"
	"marketmcp/marketmcp/utils/logging"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to Postgres using dsn and migrates the source index.
func NewDatabase(ctx context.Context, dsn string) (*Database, error) {
	return Open(ctx, postgres.Open(dsn))
}

// Open migrates the schema on any gorm dialector.
func Open(ctx context.Context, dialector gorm.Dialector) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).AutoMigrate(&models.SourceRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	logging.AppLogger.Info("source index ready", zap.String("dialect", dialector.Name()))
	return &Database{DB: db}, nil
}

func (db *Database) Close() {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
