// Package sqlstore is a database/sql implementation of the stamp ledger for
// PostgreSQL, MySQL/MariaDB and SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/getpup/pupsourcing-migrationstamp"
	"github.com/getpup/pupsourcing-migrationstamp/store"
)

// DefaultTable is the ledger table name used by New.
const DefaultTable = "migration_stamps"

// Store is a SQL implementation of StampStore.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
	now     func() time.Time
}

// Compile-time check that Store implements StampStore.
var _ store.StampStore = (*Store)(nil)

// New creates a new SQL store using DefaultTable.
func New(db *sql.DB, dialect Dialect) *Store {
	s, _ := NewWithTable(db, dialect, DefaultTable)
	return s
}

// NewWithTable creates a new SQL store with a custom table name.
// Returns an error if the table name is not a safe SQL identifier.
func NewWithTable(db *sql.DB, dialect Dialect, table string) (*Store, error) {
	if err := validateIdentifier(table); err != nil {
		return nil, err
	}
	return &Store{
		db:      db,
		dialect: dialect,
		table:   table,
		now:     time.Now,
	}, nil
}

// Migrate creates the ledger table and its index if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	statements, err := migrationStatements(s.dialect, s.table)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate stamp ledger: %w", err)
		}
	}
	return nil
}

// RecordStamp inserts a record into the ledger.
// RecordedAt is set to the current time when zero and stored in UTC.
func (s *Store) RecordStamp(ctx context.Context, record store.StampRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = s.now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (migration_id, service, partition_id, phase, current_replica_index, new_replica_index, stamp, recorded_at)
		VALUES (%s)
	`, s.table, s.dialect.placeholders(8))

	_, err := s.db.ExecContext(ctx, query,
		record.MigrationID,
		record.Service,
		record.PartitionID,
		record.Phase,
		int(record.CurrentReplicaIndex),
		int(record.NewReplicaIndex),
		int32(record.Stamp),
		record.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record stamp: %w", err)
	}

	return nil
}

// LatestStamp returns the most recently inserted record for a service partition.
// Returns store.ErrStampNotFound if nothing was recorded.
func (s *Store) LatestStamp(ctx context.Context, service string, partitionID int) (store.StampRecord, error) {
	query := fmt.Sprintf(`
		SELECT migration_id, service, partition_id, phase, current_replica_index, new_replica_index, stamp, recorded_at
		FROM %s
		WHERE service = %s AND partition_id = %s
		ORDER BY id DESC
		LIMIT 1
	`, s.table, s.dialect.placeholder(1), s.dialect.placeholder(2))

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, service, partitionID))
	if err == sql.ErrNoRows {
		return store.StampRecord{}, store.ErrStampNotFound
	}
	if err != nil {
		return store.StampRecord{}, fmt.Errorf("failed to get latest stamp: %w", err)
	}

	return record, nil
}

// History returns all records for a service partition in insertion order.
func (s *Store) History(ctx context.Context, service string, partitionID int) ([]store.StampRecord, error) {
	query := fmt.Sprintf(`
		SELECT migration_id, service, partition_id, phase, current_replica_index, new_replica_index, stamp, recorded_at
		FROM %s
		WHERE service = %s AND partition_id = %s
		ORDER BY id ASC
	`, s.table, s.dialect.placeholder(1), s.dialect.placeholder(2))

	rows, err := s.db.QueryContext(ctx, query, service, partitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stamp history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]store.StampRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stamp record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stamp history: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (store.StampRecord, error) {
	var (
		record          store.StampRecord
		current, newIdx int
		stamp           int32
	)
	err := row.Scan(
		&record.MigrationID,
		&record.Service,
		&record.PartitionID,
		&record.Phase,
		&current,
		&newIdx,
		&stamp,
		&record.RecordedAt,
	)
	if err != nil {
		return store.StampRecord{}, err
	}

	record.CurrentReplicaIndex = migration.ReplicaIndex(current)
	record.NewReplicaIndex = migration.ReplicaIndex(newIdx)
	record.Stamp = migration.Stamp(stamp)
	return record, nil
}
