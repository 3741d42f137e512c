package internal

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/dukerupert/orderdesk/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations executes all pending database migrations for the given store
// driver ("postgres" or "sqlite").
func RunMigrations(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	var dialect goose.Dialect
	switch driver {
	case "postgres":
		dialect = goose.DialectPostgres
	case "sqlite":
		dialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("unsupported migration driver: %s", driver)
	}

	dir, err := fs.Sub(migrations.MigrationsFS, driver)
	if err != nil {
		return fmt.Errorf("failed to open %s migrations: %w", driver, err)
	}

	provider, err := goose.NewProvider(dialect, db, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if logger != nil {
		for _, r := range results {
			logger.Info("migration applied",
				slog.Int64("version", r.Source.Version),
				slog.String("path", r.Source.Path),
				slog.Duration("duration", r.Duration),
			)
		}
	}

	return nil
}
