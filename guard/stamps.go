package guard

import (
	"sync/atomic"

	"github.com/getpup/pupsourcing-migrationstamp"
	"github.com/google/uuid"
)

// StampSource produces candidate committed stamps.
// The Guard discards candidates equal to InFlightMigrationStamp or to the
// previous committed stamp, so a source only needs to vary its output.
type StampSource interface {
	Next() migration.Stamp
}

// StampSourceFunc adapts a function to StampSource.
type StampSourceFunc func() migration.Stamp

// Next calls f.
func (f StampSourceFunc) Next() migration.Stamp {
	return f()
}

// CounterSource hands out stamps from a monotonic counter, skipping the sentinel on wrap-around.
type CounterSource struct {
	counter atomic.Int32
}

// NewCounterSource creates a CounterSource whose first stamp is start+1.
func NewCounterSource(start migration.Stamp) *CounterSource {
	s := &CounterSource{}
	s.counter.Store(int32(start))
	return s
}

// Next returns the next counter value.
func (s *CounterSource) Next() migration.Stamp {
	next := migration.Stamp(s.counter.Add(1))
	if next == migration.InFlightMigrationStamp {
		next = migration.Stamp(s.counter.Add(1))
	}
	return next
}

// RandomSource draws stamps from random UUIDs, so a guard recreated after a
// restart does not hand out the stamps its predecessor did.
type RandomSource struct{}

// Next returns the low 32 bits of a random UUID.
func (RandomSource) Next() migration.Stamp {
	return migration.Stamp(int32(uuid.New().ID()))
}

// maxDraws bounds how many candidates nextStamp takes from a source before
// deriving the stamp from the previous one.
const maxDraws = 8

// nextStamp returns a committed stamp that differs from previous and from the sentinel.
func nextStamp(source StampSource, previous migration.Stamp) migration.Stamp {
	for i := 0; i < maxDraws; i++ {
		candidate := source.Next()
		if candidate != migration.InFlightMigrationStamp && candidate != previous {
			return candidate
		}
	}

	next := previous + 1
	if next == migration.InFlightMigrationStamp {
		next++
	}
	return next
}
