// Command stampguard runs a promotion and a backup migration through a guarded
// partition service and prints the migration stamps.
//
// Usage:
//
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/stampguard -partition 3
//
// Record the stamp ledger in a database:
//
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/stampguard -driver sqlite3 -dsn stamps.db
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/stampguard -driver postgres -dsn "postgres://localhost/stamps?sslmode=disable"
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/stampguard -driver mysql -dsn "user:pass@/stamps?parseTime=true"
//
// Keep serving /metrics after the run:
//
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/stampguard -metrics-addr :9090
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/getpup/pupsourcing-migrationstamp"
	"github.com/getpup/pupsourcing-migrationstamp/coordinator"
	"github.com/getpup/pupsourcing-migrationstamp/guard"
	"github.com/getpup/pupsourcing-migrationstamp/metrics"
	"github.com/getpup/pupsourcing-migrationstamp/service"
	"github.com/getpup/pupsourcing-migrationstamp/store"
	"github.com/getpup/pupsourcing-migrationstamp/store/memory"
	"github.com/getpup/pupsourcing-migrationstamp/store/sqlstore"
	"github.com/getpup/pupsourcing/es"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var _ es.Logger = stdLogger{}

func main() {
	var (
		driver      = flag.String("driver", "", "Ledger database driver: postgres, mysql, or sqlite3 (default: in-memory ledger)")
		dsn         = flag.String("dsn", "", "Ledger database DSN")
		table       = flag.String("table", sqlstore.DefaultTable, "Ledger table name")
		serviceName = flag.String("service", "demo-service", "Name of the guarded service")
		partition   = flag.Int("partition", 0, "Partition ID")
		metricsAddr = flag.String("metrics-addr", "", "Serve /metrics on this address after the run (e.g. :9090)")
		fail        = flag.Bool("fail", false, "Wrap a service whose lifecycle calls always fail")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)

	flag.Parse()

	cfg := runConfig{
		driver:      *driver,
		dsn:         *dsn,
		table:       *table,
		service:     *serviceName,
		partition:   *partition,
		metricsAddr: *metricsAddr,
		fail:        *fail,
		debug:       *debug,
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

type runConfig struct {
	driver      string
	dsn         string
	table       string
	service     string
	partition   int
	metricsAddr string
	fail        bool
	debug       bool
}

// run drives the demo migrations. Deferred cleanup always runs before it returns.
func run(cfg runConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := stdLogger{debug: cfg.debug}

	ledger, closeLedger, err := openLedger(ctx, cfg.driver, cfg.dsn, cfg.table)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer closeLedger()

	var wrapped migration.PartitionService = service.NoOp{}
	if cfg.fail {
		wrapped = service.Failing{}
	}

	collector := metrics.NewCollector(cfg.service)
	g, err := guard.New(guard.Config{
		Service:     wrapped,
		Name:        cfg.service,
		PartitionID: cfg.partition,
		Stamps:      guard.RandomSource{},
		Logger:      logger,
		Metrics:     collector,
	})
	if err != nil {
		return fmt.Errorf("failed to create guard: %w", err)
	}

	coord, err := coordinator.New(coordinator.Config{
		Guard:   g,
		Store:   ledger,
		Service: cfg.service,
		Logger:  logger,
		Metrics: collector,
	})
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}

	fmt.Printf("initial stamp: %d\n", g.GetMigrationStamp())

	events := []migration.MigrationEvent{
		{PartitionID: cfg.partition, CurrentReplicaIndex: 1, NewReplicaIndex: migration.PrimaryReplicaIndex},
		{PartitionID: cfg.partition, CurrentReplicaIndex: 2, NewReplicaIndex: 1},
	}
	for _, event := range events {
		before := g.GetMigrationStamp()
		stamp, err := coord.Migrate(ctx, event, func(ctx context.Context, event migration.MigrationEvent) error {
			return ctx.Err()
		})
		if err != nil {
			log.Printf("Migration %s failed: %v", event, err)
		}
		fmt.Printf("migration %s: stamp %d -> %d (previous stamp valid: %t)\n",
			event, before, stamp, g.ValidateMigrationStamp(before))
	}

	history, err := ledger.History(ctx, cfg.service, cfg.partition)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	for _, r := range history {
		fmt.Printf("ledger: %s %-8s %d > %d stamp=%d\n", r.MigrationID, r.Phase, r.CurrentReplicaIndex, r.NewReplicaIndex, r.Stamp)
	}

	if cfg.metricsAddr != "" {
		log.Printf("Serving metrics on %s, press Ctrl+C to stop", cfg.metricsAddr)
		if err := metrics.NewServer(cfg.metricsAddr, nil).Serve(ctx); err != nil {
			return fmt.Errorf("metrics server error: %w", err)
		}
	}
	return nil
}

// openLedger returns the stamp ledger selected by driver, creating the table if needed.
func openLedger(ctx context.Context, driver, dsn, table string) (store.StampStore, func(), error) {
	if driver == "" {
		return memory.New(), func() {}, nil
	}

	dialect, err := sqlstore.ParseDialect(driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	closeDB := func() {
		_ = db.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s, err := sqlstore.NewWithTable(db, dialect, table)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	return s, closeDB, nil
}
