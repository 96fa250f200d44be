package store

import "errors"

var (
	// ErrStampNotFound indicates no stamp has been recorded for the service and partition.
	ErrStampNotFound = errors.New("stamp not found")

	// ErrInvalidRecord indicates a StampRecord is missing required fields.
	ErrInvalidRecord = errors.New("invalid stamp record")
)
