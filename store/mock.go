package store

import (
	"context"
	"sync"
)

// MockStampStore is a configurable mock implementation of StampStore for use in
// tests. Without hooks it keeps records in memory.
type MockStampStore struct {
	mu sync.RWMutex

	// RecordStampFunc is called by RecordStamp if set.
	RecordStampFunc func(ctx context.Context, record StampRecord) error

	// LatestStampFunc is called by LatestStamp if set.
	LatestStampFunc func(ctx context.Context, service string, partitionID int) (StampRecord, error)

	// HistoryFunc is called by History if set.
	HistoryFunc func(ctx context.Context, service string, partitionID int) ([]StampRecord, error)

	// RecordStampCalls holds every record passed to RecordStamp, including failed ones.
	RecordStampCalls []StampRecord

	records []StampRecord
}

// Compile-time check that MockStampStore implements StampStore.
var _ StampStore = (*MockStampStore)(nil)

// NewMockStampStore creates a new MockStampStore with an empty call history.
func NewMockStampStore() *MockStampStore {
	return &MockStampStore{
		RecordStampCalls: make([]StampRecord, 0),
		records:          make([]StampRecord, 0),
	}
}

// RecordStamp implements StampStore.
func (m *MockStampStore) RecordStamp(ctx context.Context, record StampRecord) error {
	m.mu.Lock()
	m.RecordStampCalls = append(m.RecordStampCalls, record)
	fn := m.RecordStampFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, record)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

// LatestStamp implements StampStore.
func (m *MockStampStore) LatestStamp(ctx context.Context, service string, partitionID int) (StampRecord, error) {
	if m.LatestStampFunc != nil {
		return m.LatestStampFunc(ctx, service, partitionID)
	}

	history, _ := m.History(ctx, service, partitionID)
	if len(history) == 0 {
		return StampRecord{}, ErrStampNotFound
	}
	return history[len(history)-1], nil
}

// History implements StampStore.
func (m *MockStampStore) History(ctx context.Context, service string, partitionID int) ([]StampRecord, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, service, partitionID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]StampRecord, 0)
	for _, r := range m.records {
		if r.Service == service && r.PartitionID == partitionID {
			result = append(result, r)
		}
	}
	return result, nil
}

// Reset clears recorded calls and records.
func (m *MockStampStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordStampCalls = make([]StampRecord, 0)
	m.records = make([]StampRecord, 0)
}
