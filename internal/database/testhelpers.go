package database

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database, migrates the
// schema and installs it as the shared connection for the duration of the
// test. Tests exercise the same repository code paths as production, with
// Postgres-specific column types falling back to their text encodings.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	previous := DB
	DB = db
	t.Cleanup(func() {
		DB = previous
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
