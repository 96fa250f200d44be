package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/getpup/pupsourcing-migrationstamp/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InMemoryLedger(t *testing.T) {
	err := run(runConfig{service: "test-cmd-memory", partition: 1})

	assert.NoError(t, err)
}

func TestRun_ReturnsErrorForUnsupportedDriver(t *testing.T) {
	err := run(runConfig{driver: "oracle", dsn: "x", table: sqlstore.DefaultTable, service: "test-cmd-driver"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open ledger")
}

func TestRun_ReturnsErrorForInvalidTable(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "stamps.db")

	err := run(runConfig{driver: "sqlite3", dsn: dsn, table: "bad-table;", service: "test-cmd-table"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open ledger")
}

func TestRun_RecordsLedgerInDatabase(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "stamps.db")

	require.NoError(t, run(runConfig{
		driver:    "sqlite3",
		dsn:       dsn,
		table:     sqlstore.DefaultTable,
		service:   "test-cmd-sqlite",
		partition: 4,
	}))

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	defer db.Close()

	history, err := sqlstore.New(db, sqlstore.SQLite).History(context.Background(), "test-cmd-sqlite", 4)
	require.NoError(t, err)
	// before and commit for the promotion and the backup migration
	assert.Len(t, history, 4)
}
