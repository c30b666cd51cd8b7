package database

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite3  = "sqlite3"
)

var placeholder = regexp.MustCompile(`\$\d+`)

// DB wraps the database connection
type DB struct {
	*sql.DB
	driver string
}

// NewDB creates a new database connection
// For postgres, connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=wallet_pnl sslmode=disable"
// For sqlite3 it is a file path or ":memory:"
func NewDB(driver, connectionString string) (*DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite3 {
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sql.Open(driver, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite3 {
		// A single connection keeps ":memory:" databases alive and serialises writers
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, driver: driver}, nil
}

// Driver returns the name of the driver the connection was opened with
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// rebind rewrites $n placeholders into the driver's bind syntax.
// Queries must use each placeholder once and in order.
func (db *DB) rebind(query string) string {
	if db.driver == DriverPostgres {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}
