package migration

import (
	"errors"
	"fmt"
)

// ErrInvalidMigrationSequence indicates commit or rollback of a primary replica
// migration was called without a preceding BeforeMigration.
var ErrInvalidMigrationSequence = errors.New("invalid migration sequence")

// ContractViolation is the panic value raised when the migration lifecycle is
// driven out of order. It signals a bug in the caller and must not be recovered
// and retried.
type ContractViolation struct {
	// Phase is the lifecycle call that detected the violation ("commit" or "rollback").
	Phase string

	// Event is the migration event passed to that call.
	Event MigrationEvent

	// Observed is the stamp found instead of InFlightMigrationStamp.
	Observed Stamp
}

// Error implements error.
func (v *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s of primary replica migration %s observed stamp %d, expected %d",
		ErrInvalidMigrationSequence, v.Phase, v.Event, v.Observed, InFlightMigrationStamp)
}

// Unwrap returns ErrInvalidMigrationSequence.
func (v *ContractViolation) Unwrap() error {
	return ErrInvalidMigrationSequence
}
