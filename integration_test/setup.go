//go:build integration

package integration_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/getpup/pupsourcing-migrationstamp/store/sqlstore"
	_ "github.com/lib/pq"
)

const testTable = "migration_stamps_it"

// getTestDB returns a database connection for integration tests.
// It reads the DATABASE_URL environment variable and skips the test if not set.
func getTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	return db
}

// setupLedger creates the ledger table and returns a store bound to it.
// The table is dropped when the test finishes.
func setupLedger(t *testing.T, db *sql.DB) *sqlstore.Store {
	t.Helper()

	s, err := sqlstore.NewWithTable(db, sqlstore.Postgres, testTable)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to create ledger table: %v", err)
	}

	t.Cleanup(func() {
		down, err := sqlstore.MigrationDown(sqlstore.Postgres, testTable)
		if err != nil {
			t.Logf("warning: failed to build teardown SQL: %v", err)
			return
		}
		if _, err := db.Exec(down); err != nil {
			t.Logf("warning: failed to drop ledger table: %v", err)
		}
	})

	return s
}
