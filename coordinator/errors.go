package coordinator

import "errors"

var (
	// ErrGuardRequired indicates a Coordinator was configured without a guard.
	ErrGuardRequired = errors.New("stamp guard is required")

	// ErrNilTransfer indicates Migrate was called without a transfer function.
	ErrNilTransfer = errors.New("transfer function is required")
)
