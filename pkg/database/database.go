package database

import (
	"context"
	"fmt"
	"time"

	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/pkg/config"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB connects to PostgreSQL using the configuration
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := Open(postgres.New(pgConfig), cfg.DB.GormLogLevel())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	logger.GetLogger().Info("Database connection established",
		zap.String("db_name", cfg.DB.DBName),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns))

	return db, nil
}

// Open opens a gorm session on any dialector with the service defaults:
// zap-backed SQL logging, translated driver errors and UTC timestamps.
func Open(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Migrate runs migrations for every model
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database is not initialized")
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// Transaction runs fn in a single transaction. The transaction commits
// when fn returns nil and rolls back when fn returns an error or panics.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// Ping checks that the database answers
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
