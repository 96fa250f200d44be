// Package coordinator drives the migration lifecycle of a single guarded partition:
// before, data transfer, then commit or rollback, recording each stamp in the ledger.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getpup/pupsourcing-migrationstamp"
	"github.com/getpup/pupsourcing-migrationstamp/guard"
	"github.com/getpup/pupsourcing-migrationstamp/metrics"
	"github.com/getpup/pupsourcing-migrationstamp/store"
	"github.com/getpup/pupsourcing/es"
	"github.com/google/uuid"
)

// Migration outcomes, used as the outcome label of the duration histogram.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeFailed     = "failed"
)

// StampGuard is a PartitionService that exposes its migration stamp.
// *guard.Guard satisfies it.
type StampGuard interface {
	migration.PartitionService
	GetMigrationStamp() migration.Stamp
}

// TransferFunc moves the partition data described by event. It runs between
// BeforeMigration and CommitMigration.
type TransferFunc func(ctx context.Context, event migration.MigrationEvent) error

// Config holds configuration for the Coordinator.
type Config struct {
	// Guard wraps the partition service being migrated (required).
	Guard StampGuard

	// Store records the stamp ledger (optional).
	Store store.StampStore

	// Service names the guarded service in the ledger and logs (default: "partition-service").
	Service string

	// Logger is for observability (optional).
	Logger es.Logger

	// Metrics is an optional metrics collector.
	Metrics *metrics.Collector
}

// Coordinator runs migrations for one guarded partition.
// Migrate and Replicate must not be called concurrently on the same Coordinator.
type Coordinator struct {
	config Config
}

// New creates a new Coordinator with the given configuration.
// Returns ErrGuardRequired if cfg.Guard is nil.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Guard == nil {
		return nil, ErrGuardRequired
	}
	if cfg.Service == "" {
		cfg.Service = "partition-service"
	}

	return &Coordinator{
		config: cfg,
	}, nil
}

// Migrate runs one migration: BeforeMigration, transfer, then CommitMigration.
// If BeforeMigration or transfer fails the migration is rolled back instead and
// the cause is returned joined with any rollback failure.
//
// Returns the guard's stamp after the migration finished. Ledger write failures
// are logged and joined into the returned error; they never change the outcome.
func (c *Coordinator) Migrate(ctx context.Context, event migration.MigrationEvent, transfer TransferFunc) (migration.Stamp, error) {
	if transfer == nil {
		return c.config.Guard.GetMigrationStamp(), ErrNilTransfer
	}
	if err := ctx.Err(); err != nil {
		return c.config.Guard.GetMigrationStamp(), err
	}

	migrationID := uuid.New().String()
	start := time.Now()

	if c.config.Logger != nil {
		c.config.Logger.Info(ctx, "migration started",
			"migrationID", migrationID, "service", c.config.Service,
			"partition", event.PartitionID, "event", event.String(),
			"primary", migration.IsPrimaryReplicaMigrationEvent(event))
	}

	if err := c.config.Guard.BeforeMigration(ctx, event); err != nil {
		return c.rollback(ctx, migrationID, event, start, fmt.Errorf("before migration: %w", err))
	}
	ledgerErr := c.record(ctx, migrationID, guard.PhaseBefore, event)

	if err := transfer(ctx, event); err != nil {
		stamp, rollbackErr := c.rollback(ctx, migrationID, event, start, fmt.Errorf("transfer: %w", err))
		return stamp, errors.Join(rollbackErr, ledgerErr)
	}

	outcome := OutcomeCommitted
	commitErr := c.config.Guard.CommitMigration(ctx, event)
	if commitErr != nil {
		outcome = OutcomeFailed
		commitErr = fmt.Errorf("commit migration: %w", commitErr)
	}
	stamp := c.config.Guard.GetMigrationStamp()
	ledgerErr = errors.Join(ledgerErr, c.record(ctx, migrationID, guard.PhaseCommit, event))
	c.observe(outcome, start)

	if c.config.Logger != nil {
		if commitErr != nil {
			c.config.Logger.Error(ctx, "migration commit failed",
				"migrationID", migrationID, "service", c.config.Service,
				"partition", event.PartitionID, "stamp", stamp, "error", commitErr)
		} else {
			c.config.Logger.Info(ctx, "migration committed",
				"migrationID", migrationID, "service", c.config.Service,
				"partition", event.PartitionID, "stamp", stamp)
		}
	}

	return stamp, errors.Join(commitErr, ledgerErr)
}

// Replicate asks the guarded service for the replication payload of event and runs it.
// A nil payload means there is nothing to replicate.
func (c *Coordinator) Replicate(ctx context.Context, event migration.ReplicationEvent) error {
	op, err := c.config.Guard.PrepareReplicationOperation(ctx, event)
	if err != nil {
		return fmt.Errorf("prepare replication operation: %w", err)
	}
	if op == nil {
		return nil
	}

	if err := op.Run(ctx); err != nil {
		if c.config.Logger != nil {
			c.config.Logger.Error(ctx, "replication failed",
				"service", c.config.Service, "partition", event.PartitionID,
				"replica", event.ReplicaIndex, "error", err)
		}
		return fmt.Errorf("run replication operation: %w", err)
	}

	return nil
}

// rollback abandons the migration. It runs on a context detached from ctx's
// cancellation so a cancelled transfer still rolls back.
func (c *Coordinator) rollback(ctx context.Context, migrationID string, event migration.MigrationEvent, start time.Time, cause error) (migration.Stamp, error) {
	rollbackCtx := context.WithoutCancel(ctx)

	var rollbackErr error
	if err := c.config.Guard.RollbackMigration(rollbackCtx, event); err != nil {
		rollbackErr = fmt.Errorf("rollback migration: %w", err)
	}
	stamp := c.config.Guard.GetMigrationStamp()
	ledgerErr := c.record(rollbackCtx, migrationID, guard.PhaseRollback, event)
	c.observe(OutcomeRolledBack, start)

	if c.config.Logger != nil {
		c.config.Logger.Error(rollbackCtx, "migration rolled back",
			"migrationID", migrationID, "service", c.config.Service,
			"partition", event.PartitionID, "stamp", stamp, "error", cause)
	}

	return stamp, errors.Join(cause, rollbackErr, ledgerErr)
}

func (c *Coordinator) record(ctx context.Context, migrationID, phase string, event migration.MigrationEvent) error {
	if c.config.Store == nil {
		return nil
	}

	err := c.config.Store.RecordStamp(ctx, store.StampRecord{
		MigrationID:         migrationID,
		Service:             c.config.Service,
		PartitionID:         event.PartitionID,
		Phase:               phase,
		CurrentReplicaIndex: event.CurrentReplicaIndex,
		NewReplicaIndex:     event.NewReplicaIndex,
		Stamp:               c.config.Guard.GetMigrationStamp(),
	})
	if err != nil {
		if c.config.Logger != nil {
			c.config.Logger.Error(ctx, "failed to record stamp",
				"migrationID", migrationID, "phase", phase, "error", err)
		}
		return fmt.Errorf("record %s stamp: %w", phase, err)
	}

	return nil
}

func (c *Coordinator) observe(outcome string, start time.Time) {
	if c.config.Metrics != nil {
		c.config.Metrics.ObserveMigrationDuration(outcome, time.Since(start).Seconds())
	}
}
