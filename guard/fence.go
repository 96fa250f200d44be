package guard

import (
	"context"

	"github.com/getpup/pupsourcing-migrationstamp"
)

// ReadFenced runs fn as an optimistic read against the partition.
//
// Returns ErrMigrationInFlight without calling fn if a primary replica migration
// is underway. Returns fn's error as-is if fn fails. Returns ErrStaleRead if a
// primary replica migration started or finished while fn was running; the
// caller must discard whatever fn read.
func (g *Guard) ReadFenced(ctx context.Context, fn func(ctx context.Context) error) error {
	stamp := g.GetMigrationStamp()
	if stamp == migration.InFlightMigrationStamp {
		return ErrMigrationInFlight
	}

	if err := fn(ctx); err != nil {
		return err
	}

	if !g.ValidateMigrationStamp(stamp) {
		if g.config.Logger != nil {
			g.config.Logger.Debug(ctx, "fenced read invalidated",
				"service", g.config.Name, "partition", g.config.PartitionID, "stamp", stamp)
		}
		return ErrStaleRead
	}
	return nil
}
