package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates any missing tables and indexes for the connected driver.
// Statements are idempotent, so running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var file string
	switch db.DriverName() {
	case DriverPostgres:
		file = "schema/postgres.sql"
	case DriverSQLite:
		file = "schema/sqlite.sql"
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	schema, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	slog.Info("running schema migration", "driver", db.DriverName())
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	return nil
}
