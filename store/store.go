package store

import (
	"context"
	"fmt"
	"time"

	"github.com/getpup/pupsourcing-migrationstamp"
)

// StampRecord is one entry of the stamp ledger: the stamp a guard held after a
// lifecycle phase of a migration.
type StampRecord struct {
	// MigrationID groups the records of one migration run.
	MigrationID string

	// Service is the name of the guarded service.
	Service string

	// PartitionID is the migrated partition.
	PartitionID int

	// Phase is the lifecycle phase that produced the stamp ("before", "commit" or "rollback").
	Phase string

	// CurrentReplicaIndex and NewReplicaIndex describe the migration event.
	CurrentReplicaIndex migration.ReplicaIndex
	NewReplicaIndex     migration.ReplicaIndex

	// Stamp is the guard's stamp after the phase.
	Stamp migration.Stamp

	// RecordedAt is set by the store when zero.
	RecordedAt time.Time
}

// Validate checks the fields every store requires.
func (r StampRecord) Validate() error {
	if r.MigrationID == "" {
		return fmt.Errorf("%w: migration ID is empty", ErrInvalidRecord)
	}
	if r.Service == "" {
		return fmt.Errorf("%w: service is empty", ErrInvalidRecord)
	}
	if r.Phase == "" {
		return fmt.Errorf("%w: phase is empty", ErrInvalidRecord)
	}
	return nil
}

// StampStore persists the stamp ledger so migrations can be audited and readers
// outside the process can compare stamps.
// Implementations must be safe for concurrent access.
type StampStore interface {
	// RecordStamp appends a record to the ledger.
	// Returns ErrInvalidRecord if the record fails validation.
	RecordStamp(ctx context.Context, record StampRecord) error

	// LatestStamp returns the most recently recorded entry for a service partition.
	// Returns ErrStampNotFound if nothing was recorded.
	LatestStamp(ctx context.Context, service string, partitionID int) (StampRecord, error)

	// History returns all entries for a service partition, oldest first.
	// Returns an empty slice if nothing was recorded.
	History(ctx context.Context, service string, partitionID int) ([]StampRecord, error)
}
