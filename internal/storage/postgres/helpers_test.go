package postgres_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/gravadigital/campus-events-api/internal/storage/migrations"
	"github.com/gravadigital/campus-events-api/internal/storage/postgres"
)

// openTestStore returns a store over a private in-memory SQLite database with
// the production models migrated. It is closed when the test finishes.
func openTestStore(t *testing.T) *postgres.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("openTestStore: open: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("openTestStore: db: %v", err)
	}
	// single connection keeps the in-memory database alive and serializes access
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(migrations.Models()...); err != nil {
		t.Fatalf("openTestStore: migrate: %v", err)
	}

	store := postgres.NewStoreWithDB(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
