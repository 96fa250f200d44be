// Command migrate-gen generates the SQL migration for the migration stamp ledger table.
//
// Usage:
//
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/migrate-gen -output migrations
//
// Generate migrations for different database adapters:
//
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/migrate-gen -adapter postgres -output migrations
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/migrate-gen -adapter mysql -output migrations
//	go run github.com/getpup/pupsourcing-migrationstamp/cmd/migrate-gen -adapter sqlite3 -output migrations
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/getpup/pupsourcing-migrationstamp/store/sqlstore"
)

func main() {
	var (
		adapter        = flag.String("adapter", "postgres", "Database adapter: postgres, mysql, or sqlite3")
		outputFolder   = flag.String("output", "migrations", "Output folder for migration files")
		outputFilename = flag.String("filename", "", "Output filename prefix (default: timestamp-based)")
		table          = flag.String("table", sqlstore.DefaultTable, "Name of the stamp ledger table")
	)

	flag.Parse()

	dialect, err := sqlstore.ParseDialect(*adapter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	prefix := *outputFilename
	if prefix == "" {
		prefix = fmt.Sprintf("%s_init_migration_stamps", time.Now().Format("20060102150405"))
	}

	up, err := sqlstore.MigrationUp(dialect, *table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating migration: %v\n", err)
		os.Exit(1)
	}
	down, err := sqlstore.MigrationDown(dialect, *table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating migration: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputFolder, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output folder: %v\n", err)
		os.Exit(1)
	}

	files := map[string]string{
		prefix + ".up.sql":   up,
		prefix + ".down.sql": down,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(*outputFolder, name), []byte(content), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing migration file: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Generated %s migration: %s/%s.{up,down}.sql\n", dialect, *outputFolder, prefix)
}
