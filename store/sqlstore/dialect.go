package sqlstore

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect selects SQL syntax for a database engine.
type Dialect string

const (
	// Postgres uses $n placeholders. Register the driver with github.com/lib/pq.
	Postgres Dialect = "postgres"

	// MySQL uses ? placeholders. Register the driver with github.com/go-sql-driver/mysql
	// and open the DSN with parseTime=true.
	MySQL Dialect = "mysql"

	// SQLite uses ? placeholders. Register the driver with github.com/mattn/go-sqlite3.
	SQLite Dialect = "sqlite3"
)

// ParseDialect maps a database/sql driver name to a Dialect.
func ParseDialect(driverName string) (Dialect, error) {
	switch strings.ToLower(driverName) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported driver %q: supported drivers are postgres, mysql, sqlite3", driverName)
	}
}

// placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

var identifierRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// validateIdentifier ensures a table name contains only safe characters for SQL.
func validateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("table name must start with a letter and contain only letters, numbers, and underscores (got: %s)", name)
	}
	return nil
}

// migrationStatements returns the DDL statements that create the ledger table.
func migrationStatements(d Dialect, table string) ([]string, error) {
	if err := validateIdentifier(table); err != nil {
		return nil, err
	}

	switch d {
	case Postgres:
		return []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id BIGSERIAL PRIMARY KEY,
    migration_id TEXT NOT NULL,
    service TEXT NOT NULL,
    partition_id INTEGER NOT NULL,
    phase TEXT NOT NULL,
    current_replica_index INTEGER NOT NULL,
    new_replica_index INTEGER NOT NULL,
    stamp INTEGER NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL
)`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_partition ON %s (service, partition_id, id)`, table, table),
		}, nil
	case MySQL:
		return []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    migration_id VARCHAR(64) NOT NULL,
    service VARCHAR(255) NOT NULL,
    partition_id INT NOT NULL,
    phase VARCHAR(16) NOT NULL,
    current_replica_index INT NOT NULL,
    new_replica_index INT NOT NULL,
    stamp INT NOT NULL,
    recorded_at TIMESTAMP(6) NOT NULL,
    INDEX idx_%s_partition (service, partition_id, id)
)`, table, table),
		}, nil
	case SQLite:
		return []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    migration_id TEXT NOT NULL,
    service TEXT NOT NULL,
    partition_id INTEGER NOT NULL,
    phase TEXT NOT NULL,
    current_replica_index INTEGER NOT NULL,
    new_replica_index INTEGER NOT NULL,
    stamp INTEGER NOT NULL,
    recorded_at TIMESTAMP NOT NULL
)`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_partition ON %s (service, partition_id, id)`, table, table),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
}

// MigrationUp returns the SQL script that creates the ledger table.
func MigrationUp(d Dialect, table string) (string, error) {
	statements, err := migrationStatements(d, table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("-- Migration stamp ledger (%s)\n%s;\n", d, strings.Join(statements, ";\n\n")), nil
}

// MigrationDown returns the SQL script that drops the ledger table.
func MigrationDown(d Dialect, table string) (string, error) {
	if err := validateIdentifier(table); err != nil {
		return "", err
	}
	return fmt.Sprintf("-- Migration stamp ledger (%s)\nDROP TABLE IF EXISTS %s;\n", d, table), nil
}
