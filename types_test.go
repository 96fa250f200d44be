package migration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	t.Run("PrimaryReplicaIndex is zero", func(t *testing.T) {
		assert.Equal(t, ReplicaIndex(0), PrimaryReplicaIndex)
	})

	t.Run("InFlightMigrationStamp is minus one", func(t *testing.T) {
		assert.Equal(t, Stamp(-1), InFlightMigrationStamp)
	})
}

func TestIsPrimaryReplicaMigrationEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    MigrationEvent
		expected bool
	}{
		{name: "promotion", event: MigrationEvent{CurrentReplicaIndex: 1, NewReplicaIndex: 0}, expected: true},
		{name: "demotion", event: MigrationEvent{CurrentReplicaIndex: 0, NewReplicaIndex: 1}, expected: true},
		{name: "primary move", event: MigrationEvent{CurrentReplicaIndex: 0, NewReplicaIndex: 0}, expected: true},
		{name: "backups", event: MigrationEvent{CurrentReplicaIndex: 2, NewReplicaIndex: 1}, expected: false},
		{name: "backup move", event: MigrationEvent{CurrentReplicaIndex: 3, NewReplicaIndex: 3}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPrimaryReplicaMigrationEvent(tt.event))
		})
	}
}

func TestMigrationEvent_String(t *testing.T) {
	assert.Equal(t, "1 > 0", MigrationEvent{CurrentReplicaIndex: 1, NewReplicaIndex: 0}.String())
	assert.Equal(t, "2 > 1", MigrationEvent{PartitionID: 7, CurrentReplicaIndex: 2, NewReplicaIndex: 1}.String())
}

func TestContractViolation(t *testing.T) {
	v := &ContractViolation{
		Phase:    "commit",
		Event:    MigrationEvent{CurrentReplicaIndex: 1, NewReplicaIndex: 0},
		Observed: 42,
	}

	assert.True(t, errors.Is(v, ErrInvalidMigrationSequence))
	assert.Contains(t, v.Error(), "commit of primary replica migration 1 > 0")
	assert.Contains(t, v.Error(), "observed stamp 42")
}
