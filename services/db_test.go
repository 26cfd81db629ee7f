package services

import (
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"welcome-reward-system/models"
)

// setupTestDB opens a per-test in-memory sqlite database. Shared cache
// keeps the schema visible across pooled connections, which the
// concurrency tests rely on.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&models.GuildConfig{}, &models.JoinRecord{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return db
}
