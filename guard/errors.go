package guard

import "errors"

var (
	// ErrServiceRequired indicates a Guard was configured without a PartitionService to wrap.
	ErrServiceRequired = errors.New("partition service is required")

	// ErrMigrationInFlight indicates a fenced read was refused because a primary
	// replica migration is underway.
	ErrMigrationInFlight = errors.New("primary replica migration in flight")

	// ErrStaleRead indicates a primary replica migration happened while a fenced read was running.
	// The read result must be discarded.
	ErrStaleRead = errors.New("stale read: migration stamp changed")
)
