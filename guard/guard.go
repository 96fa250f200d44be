// Package guard implements the migration-stamp guard: a PartitionService wrapper
// that tracks primary replica migrations and exposes a stamp readers use to
// detect whether the primary moved between two points in time.
package guard

import (
	"context"
	"sync/atomic"

	"github.com/getpup/pupsourcing-migrationstamp"
	"github.com/getpup/pupsourcing-migrationstamp/metrics"
	"github.com/getpup/pupsourcing/es"
)

// Lifecycle phase names used in logs, metrics and contract violations.
const (
	PhasePrepare  = "prepare"
	PhaseBefore   = "before"
	PhaseCommit   = "commit"
	PhaseRollback = "rollback"
)

// Config configures a Guard.
type Config struct {
	// Service is the wrapped partition service (required).
	Service migration.PartitionService

	// Name identifies the wrapped service in logs and metrics (default: "partition-service").
	Name string

	// PartitionID is the partition this guard protects. Used for logging only.
	PartitionID int

	// Stamps generates committed stamps (default: a CounterSource starting at 0).
	Stamps StampSource

	// Logger is an optional logger for observability.
	Logger es.Logger

	// Metrics is an optional metrics collector.
	Metrics *metrics.Collector
}

// Guard wraps one PartitionService for one partition and maintains its migration stamp.
//
// Lifecycle calls must be made sequentially by a single migration path.
// GetMigrationStamp and ValidateMigrationStamp are safe to call concurrently
// with anything.
type Guard struct {
	config Config

	// stamp is the current stamp, InFlightMigrationStamp during a primary migration.
	stamp atomic.Int32

	// committed is the last committed stamp; a new one must differ from it.
	committed atomic.Int32
}

// Compile-time check that Guard implements PartitionService.
var _ migration.PartitionService = (*Guard)(nil)

// New creates a Guard around cfg.Service with a fresh committed stamp.
// Returns ErrServiceRequired if cfg.Service is nil.
func New(cfg Config) (*Guard, error) {
	if cfg.Service == nil {
		return nil, ErrServiceRequired
	}
	if cfg.Name == "" {
		cfg.Name = "partition-service"
	}
	if cfg.Stamps == nil {
		cfg.Stamps = NewCounterSource(0)
	}

	g := &Guard{config: cfg}
	initial := nextStamp(cfg.Stamps, migration.InFlightMigrationStamp)
	g.committed.Store(int32(initial))
	g.stamp.Store(int32(initial))

	return g, nil
}

// Service returns the wrapped partition service.
func (g *Guard) Service() migration.PartitionService {
	return g.config.Service
}

// PrepareReplicationOperation delegates to the wrapped service. The stamp is not touched.
func (g *Guard) PrepareReplicationOperation(ctx context.Context, event migration.ReplicationEvent) (migration.Operation, error) {
	op, err := g.config.Service.PrepareReplicationOperation(ctx, event)
	if err != nil {
		g.serviceFailed(ctx, PhasePrepare, err)
	}
	return op, err
}

// BeforeMigration marks a primary replica migration as in flight, then forwards
// to the wrapped service. The stamp changes before the wrapped service runs,
// so a failure from it is returned without reverting the stamp.
// Backup-only events leave the stamp untouched.
func (g *Guard) BeforeMigration(ctx context.Context, event migration.MigrationEvent) error {
	primary := migration.IsPrimaryReplicaMigrationEvent(event)
	if primary {
		previous := g.stamp.Swap(int32(migration.InFlightMigrationStamp))
		if g.config.Metrics != nil && migration.Stamp(previous) != migration.InFlightMigrationStamp {
			g.config.Metrics.IncInFlight()
		}
	}

	if g.config.Metrics != nil {
		g.config.Metrics.IncMigrationsStarted(metrics.Scope(primary))
	}
	g.logTransition(ctx, PhaseBefore, event)

	return g.forward(ctx, PhaseBefore, event, g.config.Service.BeforeMigration)
}

// CommitMigration installs a new committed stamp for a primary replica migration,
// then forwards to the wrapped service.
//
// Panics with *migration.ContractViolation if a primary replica migration is
// committed without being in flight.
func (g *Guard) CommitMigration(ctx context.Context, event migration.MigrationEvent) error {
	primary := migration.IsPrimaryReplicaMigrationEvent(event)
	if primary {
		g.finishPrimary(ctx, PhaseCommit, event)
	}

	if g.config.Metrics != nil {
		g.config.Metrics.IncMigrationsCommitted(metrics.Scope(primary))
	}
	g.logTransition(ctx, PhaseCommit, event)

	return g.forward(ctx, PhaseCommit, event, g.config.Service.CommitMigration)
}

// RollbackMigration behaves like CommitMigration. A rolled back primary replica
// migration still gets a new stamp, since readers may have seen the in-flight
// sentinel and acted on it.
//
// Panics with *migration.ContractViolation if a primary replica migration is
// rolled back without being in flight.
func (g *Guard) RollbackMigration(ctx context.Context, event migration.MigrationEvent) error {
	primary := migration.IsPrimaryReplicaMigrationEvent(event)
	if primary {
		g.finishPrimary(ctx, PhaseRollback, event)
	}

	if g.config.Metrics != nil {
		g.config.Metrics.IncMigrationsRolledBack(metrics.Scope(primary))
	}
	g.logTransition(ctx, PhaseRollback, event)

	return g.forward(ctx, PhaseRollback, event, g.config.Service.RollbackMigration)
}

// GetMigrationStamp returns the current stamp.
// It returns InFlightMigrationStamp while a primary replica migration is underway.
func (g *Guard) GetMigrationStamp() migration.Stamp {
	return migration.Stamp(g.stamp.Load())
}

// ValidateMigrationStamp reports whether candidate equals the current stamp.
// Always false while a primary replica migration is in flight.
func (g *Guard) ValidateMigrationStamp(candidate migration.Stamp) bool {
	valid := candidate != migration.InFlightMigrationStamp && migration.Stamp(g.stamp.Load()) == candidate
	if g.config.Metrics != nil {
		g.config.Metrics.ObserveValidation(valid)
	}
	return valid
}

// finishPrimary replaces the in-flight sentinel with a new committed stamp.
// Any other current stamp is a sequencing bug in the caller; the guard state and
// the stamp source are left untouched before panicking.
func (g *Guard) finishPrimary(ctx context.Context, phase string, event migration.MigrationEvent) {
	if observed := migration.Stamp(g.stamp.Load()); observed != migration.InFlightMigrationStamp {
		violation := &migration.ContractViolation{
			Phase:    phase,
			Event:    event,
			Observed: observed,
		}
		if g.config.Metrics != nil {
			g.config.Metrics.IncContractViolations()
		}
		if g.config.Logger != nil {
			g.config.Logger.Error(ctx, "migration contract violated",
				"service", g.config.Name, "partition", g.config.PartitionID, "error", violation)
		}
		panic(violation)
	}

	next := nextStamp(g.config.Stamps, migration.Stamp(g.committed.Load()))
	g.committed.Store(int32(next))
	g.stamp.Store(int32(next))

	if g.config.Metrics != nil {
		g.config.Metrics.DecInFlight()
	}
}

func (g *Guard) forward(ctx context.Context, phase string, event migration.MigrationEvent, call func(context.Context, migration.MigrationEvent) error) error {
	err := call(ctx, event)
	if err != nil {
		g.serviceFailed(ctx, phase, err)
	}
	return err
}

func (g *Guard) serviceFailed(ctx context.Context, phase string, err error) {
	if g.config.Metrics != nil {
		g.config.Metrics.IncServiceErrors(phase)
	}
	if g.config.Logger != nil {
		g.config.Logger.Error(ctx, "partition service failed",
			"service", g.config.Name, "partition", g.config.PartitionID, "phase", phase, "error", err)
	}
}

func (g *Guard) logTransition(ctx context.Context, phase string, event migration.MigrationEvent) {
	if g.config.Logger != nil {
		g.config.Logger.Debug(ctx, "migration stamp updated",
			"service", g.config.Name, "partition", g.config.PartitionID, "phase", phase,
			"event", event.String(), "stamp", g.GetMigrationStamp())
	}
}
