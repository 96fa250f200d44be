package migration

import (
	"context"
	"fmt"
)

// Stamp is a comparable token for the primary-ownership state of a partition.
// Readers take a stamp before an optimistic read and validate it afterwards;
// a changed stamp means a primary replica migrated in between.
type Stamp int32

// InFlightMigrationStamp is the reserved stamp held while a migration of the
// primary replica is underway. It is never produced by a StampSource and is
// never valid as a reader's snapshot.
const InFlightMigrationStamp Stamp = -1

// ReplicaIndex identifies a replica role within a partition.
// Index 0 is the primary, every other index is a backup.
type ReplicaIndex int

// PrimaryReplicaIndex is the replica index of the authoritative copy.
const PrimaryReplicaIndex ReplicaIndex = 0

// MigrationEvent describes a single replica moving from one role to another.
type MigrationEvent struct {
	// PartitionID is the partition being migrated.
	PartitionID int

	// CurrentReplicaIndex is the role of the replica before the migration.
	CurrentReplicaIndex ReplicaIndex

	// NewReplicaIndex is the role of the replica after the migration.
	NewReplicaIndex ReplicaIndex
}

// String renders the event as "current > new", e.g. "1 > 0" for a promotion.
func (e MigrationEvent) String() string {
	return fmt.Sprintf("%d > %d", e.CurrentReplicaIndex, e.NewReplicaIndex)
}

// IsPrimaryReplicaMigrationEvent reports whether the event moves the primary
// replica in or out, i.e. either index is PrimaryReplicaIndex.
func IsPrimaryReplicaMigrationEvent(event MigrationEvent) bool {
	return event.CurrentReplicaIndex == PrimaryReplicaIndex || event.NewReplicaIndex == PrimaryReplicaIndex
}

// ReplicationEvent asks a service for the payload needed to bring a replica up to date.
type ReplicationEvent struct {
	// PartitionID is the partition being replicated.
	PartitionID int

	// ReplicaIndex is the replica that will receive the payload.
	ReplicaIndex ReplicaIndex
}

// Operation is an opaque replication payload produced by a PartitionService
// and executed on the receiving replica.
type Operation interface {
	Run(ctx context.Context) error
}

// PartitionService is a service whose partition data follows migrations.
// Any method may fail; callers propagate those failures unchanged.
type PartitionService interface {
	// PrepareReplicationOperation returns the payload for the given replica.
	// A nil Operation with a nil error means there is nothing to replicate.
	PrepareReplicationOperation(ctx context.Context, event ReplicationEvent) (Operation, error)

	// BeforeMigration is called before partition data starts moving.
	BeforeMigration(ctx context.Context, event MigrationEvent) error

	// CommitMigration is called once the migration has completed successfully.
	CommitMigration(ctx context.Context, event MigrationEvent) error

	// RollbackMigration is called when the migration is abandoned.
	RollbackMigration(ctx context.Context, event MigrationEvent) error
}
