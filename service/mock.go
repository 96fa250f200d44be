package service

import (
	"context"
	"sync"

	"github.com/getpup/pupsourcing-migrationstamp"
)

// MockService is a mock implementation of PartitionService for testing.
type MockService struct {
	mu           sync.Mutex
	PrepareFunc  func(ctx context.Context, event migration.ReplicationEvent) (migration.Operation, error)
	BeforeFunc   func(ctx context.Context, event migration.MigrationEvent) error
	CommitFunc   func(ctx context.Context, event migration.MigrationEvent) error
	RollbackFunc func(ctx context.Context, event migration.MigrationEvent) error

	PrepareCalls  []migration.ReplicationEvent
	BeforeCalls   []migration.MigrationEvent
	CommitCalls   []migration.MigrationEvent
	RollbackCalls []migration.MigrationEvent
}

// Compile-time check that MockService implements PartitionService.
var _ migration.PartitionService = (*MockService)(nil)

// NewMockService creates a new MockService with an empty call history.
func NewMockService() *MockService {
	return &MockService{
		PrepareCalls:  make([]migration.ReplicationEvent, 0),
		BeforeCalls:   make([]migration.MigrationEvent, 0),
		CommitCalls:   make([]migration.MigrationEvent, 0),
		RollbackCalls: make([]migration.MigrationEvent, 0),
	}
}

// PrepareReplicationOperation records the call, then returns PrepareFunc's result
// or a nil operation when PrepareFunc is not set.
func (m *MockService) PrepareReplicationOperation(ctx context.Context, event migration.ReplicationEvent) (migration.Operation, error) {
	m.mu.Lock()
	m.PrepareCalls = append(m.PrepareCalls, event)
	fn := m.PrepareFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, event)
	}
	return nil, nil
}

// BeforeMigration records the call, then returns BeforeFunc's result or nil.
func (m *MockService) BeforeMigration(ctx context.Context, event migration.MigrationEvent) error {
	m.mu.Lock()
	m.BeforeCalls = append(m.BeforeCalls, event)
	fn := m.BeforeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, event)
	}
	return nil
}

// CommitMigration records the call, then returns CommitFunc's result or nil.
func (m *MockService) CommitMigration(ctx context.Context, event migration.MigrationEvent) error {
	m.mu.Lock()
	m.CommitCalls = append(m.CommitCalls, event)
	fn := m.CommitFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, event)
	}
	return nil
}

// RollbackMigration records the call, then returns RollbackFunc's result or nil.
func (m *MockService) RollbackMigration(ctx context.Context, event migration.MigrationEvent) error {
	m.mu.Lock()
	m.RollbackCalls = append(m.RollbackCalls, event)
	fn := m.RollbackFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, event)
	}
	return nil
}

// Calls returns the number of recorded before, commit and rollback calls.
func (m *MockService) Calls() (before, commit, rollback int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.BeforeCalls), len(m.CommitCalls), len(m.RollbackCalls)
}

// Reset clears the call history.
func (m *MockService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PrepareCalls = make([]migration.ReplicationEvent, 0)
	m.BeforeCalls = make([]migration.MigrationEvent, 0)
	m.CommitCalls = make([]migration.MigrationEvent, 0)
	m.RollbackCalls = make([]migration.MigrationEvent, 0)
}
