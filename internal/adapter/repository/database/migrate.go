package database

import (
	"fmt"
	"path/filepath"

	"github.com/thrasher-corp/goose"
)

// DefaultMigrationDir holds one sub directory of goose migrations per driver
const DefaultMigrationDir = "migrations"

// Migrate runs a goose command (up, down, status, ...) with the migrations
// written for the connection's driver.
func Migrate(db *DB, migrationDir, command, args string) error {
	if command == "" {
		command = "up"
	}

	dir := filepath.Join(migrationDir, db.Driver())
	if err := goose.Run(command, db.DB, db.Driver(), dir, args); err != nil {
		return fmt.Errorf("failed to run migration command %q: %w", command, err)
	}

	return nil
}
