// Package service provides PartitionService implementations for wiring and testing
// the migration-stamp guard.
package service

import (
	"context"
	"errors"

	"github.com/getpup/pupsourcing-migrationstamp"
)

// ErrServiceFailure is the default error returned by Failing.
var ErrServiceFailure = errors.New("partition service failure")

// NoOp is a PartitionService that accepts every lifecycle call and never
// produces a replication operation.
type NoOp struct{}

// Compile-time check that NoOp implements PartitionService.
var _ migration.PartitionService = NoOp{}

// PrepareReplicationOperation returns a nil operation.
func (NoOp) PrepareReplicationOperation(ctx context.Context, event migration.ReplicationEvent) (migration.Operation, error) {
	return nil, nil
}

func (NoOp) BeforeMigration(ctx context.Context, event migration.MigrationEvent) error {
	return nil
}

func (NoOp) CommitMigration(ctx context.Context, event migration.MigrationEvent) error {
	return nil
}

func (NoOp) RollbackMigration(ctx context.Context, event migration.MigrationEvent) error {
	return nil
}

// Failing is a PartitionService whose lifecycle calls always fail.
// PrepareReplicationOperation returns a nil operation without error.
type Failing struct {
	// Err is returned from every lifecycle call (default: ErrServiceFailure).
	Err error
}

// Compile-time check that Failing implements PartitionService.
var _ migration.PartitionService = Failing{}

func (f Failing) err() error {
	if f.Err == nil {
		return ErrServiceFailure
	}
	return f.Err
}

// PrepareReplicationOperation returns a nil operation.
func (Failing) PrepareReplicationOperation(ctx context.Context, event migration.ReplicationEvent) (migration.Operation, error) {
	return nil, nil
}

func (f Failing) BeforeMigration(ctx context.Context, event migration.MigrationEvent) error {
	return f.err()
}

func (f Failing) CommitMigration(ctx context.Context, event migration.MigrationEvent) error {
	return f.err()
}

func (f Failing) RollbackMigration(ctx context.Context, event migration.MigrationEvent) error {
	return f.err()
}
