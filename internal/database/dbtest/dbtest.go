// Package dbtest opens throwaway in-memory stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"blog/internal/config"
	"blog/internal/database"

	"gorm.io/gorm"
)

// DSN returns an in-memory SQLite DSN private to the calling test.
func DSN(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// Open returns a migrated in-memory store that is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDSN:    DSN(t),
		DBLogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})
	return db
}
