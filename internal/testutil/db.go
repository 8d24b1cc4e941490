// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/raisama21/ims/pkg/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
// The pool holds a single connection so the in-memory database survives
// for the life of the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), gormlogger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}
