// Package dbtest wires repository tests to a throwaway Postgres database.
// Tests that call Open are skipped unless TEST_DATABASE_URL is set.
package dbtest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"alliance-tracker/internal/shared/database"

	_ "github.com/lib/pq"
)

// Open connects to the test database and runs all migrations. The connection
// is closed when the test finishes.
func Open(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	db := &database.DB{DB: sqlDB}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if err := db.RunMigrations(migrationsDir(t)); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// Truncate empties the given tables between tests, cascading to dependents.
func Truncate(t *testing.T, db *database.DB, tables ...string) {
	t.Helper()

	query := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("failed to truncate %v: %v", tables, err)
	}
}

func migrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to locate migrations directory")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}
