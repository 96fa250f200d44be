package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scope label values distinguish primary-affecting migrations from backup-only ones.
const (
	ScopePrimary = "primary"
	ScopeBackup  = "backup"
)

// Validation result label values.
const (
	ResultValid = "valid"
	ResultStale = "stale"
)

// MigrationsStartedTotal tracks BeforeMigration calls.
var MigrationsStartedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "migrationstamp_migrations_started_total",
		Help: "Total migrations started",
	},
	[]string{"service", "scope"},
)

// MigrationsCommittedTotal tracks CommitMigration calls.
var MigrationsCommittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "migrationstamp_migrations_committed_total",
		Help: "Total migrations committed",
	},
	[]string{"service", "scope"},
)

// MigrationsRolledBackTotal tracks RollbackMigration calls.
var MigrationsRolledBackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "migrationstamp_migrations_rolled_back_total",
		Help: "Total migrations rolled back",
	},
	[]string{"service", "scope"},
)

// ServiceErrorsTotal tracks failures returned by the wrapped partition service.
var ServiceErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "migrationstamp_service_errors_total",
		Help: "Total errors returned by the wrapped partition service",
	},
	[]string{"service", "phase"},
)

// StampValidationsTotal tracks stamp validations by result.
var StampValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "migrationstamp_stamp_validations_total",
		Help: "Total stamp validations",
	},
	[]string{"service", "result"},
)

// ContractViolationsTotal tracks out-of-order lifecycle calls.
var ContractViolationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "migrationstamp_contract_violations_total",
		Help: "Total migration lifecycle contract violations",
	},
	[]string{"service"},
)

// MigrationsInFlight counts partitions with a primary replica migration underway.
var MigrationsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "migrationstamp_migrations_in_flight",
		Help: "Primary replica migrations currently in flight",
	},
	[]string{"service"},
)

// MigrationDuration tracks end-to-end migration time by outcome.
var MigrationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "migrationstamp_migration_duration_seconds",
		Help:    "Time from BeforeMigration to commit or rollback",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"service", "outcome"},
)
