package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/getpup/pupsourcing-migrationstamp"
	"github.com/getpup/pupsourcing-migrationstamp/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(migrationID string, partitionID int, phase string, stamp int32) store.StampRecord {
	return store.StampRecord{
		MigrationID:         migrationID,
		Service:             "orders",
		PartitionID:         partitionID,
		Phase:               phase,
		CurrentReplicaIndex: 1,
		NewReplicaIndex:     0,
		Stamp:               migration.Stamp(stamp),
	}
}

func TestRecordStamp_SetsRecordedAt(t *testing.T) {
	s := New()
	ctx := context.Background()

	before := time.Now()
	require.NoError(t, s.RecordStamp(ctx, record("mig-1", 3, "commit", 9)))
	after := time.Now()

	latest, err := s.LatestStamp(ctx, "orders", 3)
	require.NoError(t, err)
	assert.True(t, !latest.RecordedAt.Before(before) && !latest.RecordedAt.After(after))
}

func TestRecordStamp_PreservesRecordedAt(t *testing.T) {
	s := New()
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	r := record("mig-1", 3, "commit", 9)
	r.RecordedAt = at
	require.NoError(t, s.RecordStamp(ctx, r))

	latest, err := s.LatestStamp(ctx, "orders", 3)
	require.NoError(t, err)
	assert.Equal(t, at, latest.RecordedAt)
}

func TestRecordStamp_RejectsInvalidRecord(t *testing.T) {
	s := New()

	err := s.RecordStamp(context.Background(), store.StampRecord{Service: "orders"})

	assert.ErrorIs(t, err, store.ErrInvalidRecord)
}

func TestLatestStamp_NotFound(t *testing.T) {
	s := New()

	_, err := s.LatestStamp(context.Background(), "orders", 1)

	assert.ErrorIs(t, err, store.ErrStampNotFound)
}

func TestHistory_OrderedAndScoped(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.RecordStamp(ctx, record("mig-1", 1, "before", -1)))
	require.NoError(t, s.RecordStamp(ctx, record("mig-1", 1, "commit", 2)))
	require.NoError(t, s.RecordStamp(ctx, record("mig-2", 2, "before", -1)))

	history, err := s.History(ctx, "orders", 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "before", history[0].Phase)
	assert.Equal(t, "commit", history[1].Phase)

	latest, err := s.LatestStamp(ctx, "orders", 1)
	require.NoError(t, err)
	assert.Equal(t, migration.Stamp(2), latest.Stamp)

	other, err := s.History(ctx, "payments", 1)
	require.NoError(t, err)
	assert.NotNil(t, other)
	assert.Empty(t, other)
}

func TestHistory_ReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.RecordStamp(ctx, record("mig-1", 1, "commit", 2)))

	history, err := s.History(ctx, "orders", 1)
	require.NoError(t, err)
	history[0].Stamp = 100

	latest, err := s.LatestStamp(ctx, "orders", 1)
	require.NoError(t, err)
	assert.Equal(t, migration.Stamp(2), latest.Stamp)
}

func TestConcurrentRecording(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.RecordStamp(ctx, record(fmt.Sprintf("mig-%d", i), 1, "commit", int32(i)))
		}(i)
	}
	wg.Wait()

	history, err := s.History(ctx, "orders", 1)
	require.NoError(t, err)
	assert.Len(t, history, 50)
}
