package memory

import (
	"context"
	"sync"
	"time"

	"github.com/getpup/pupsourcing-migrationstamp/store"
)

type partitionKey struct {
	service     string
	partitionID int
}

// Store is an in-memory implementation of StampStore for testing and single-process use.
// It provides thread-safe access to the ledger using a sync.RWMutex.
type Store struct {
	mu      sync.RWMutex
	records map[partitionKey][]store.StampRecord
	now     func() time.Time
}

// Compile-time check that Store implements StampStore.
var _ store.StampStore = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records: make(map[partitionKey][]store.StampRecord),
		now:     time.Now,
	}
}

// RecordStamp appends a record to the partition's ledger.
// RecordedAt is set to the current time when zero.
func (s *Store) RecordStamp(ctx context.Context, record store.StampRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.RecordedAt.IsZero() {
		record.RecordedAt = s.now()
	}

	key := partitionKey{service: record.Service, partitionID: record.PartitionID}
	s.records[key] = append(s.records[key], record)

	return nil
}

// LatestStamp returns the last record appended for a service partition.
// Returns store.ErrStampNotFound if nothing was recorded.
func (s *Store) LatestStamp(ctx context.Context, service string, partitionID int) (store.StampRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[partitionKey{service: service, partitionID: partitionID}]
	if len(records) == 0 {
		return store.StampRecord{}, store.ErrStampNotFound
	}

	return records[len(records)-1], nil
}

// History returns a copy of the partition's ledger, oldest first.
func (s *Store) History(ctx context.Context, service string, partitionID int) ([]store.StampRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[partitionKey{service: service, partitionID: partitionID}]
	result := make([]store.StampRecord, len(records))
	copy(result, records)

	return result, nil
}
