// Package sqlite is the embedded order store. It implements the same Querier
// contract as the Postgres store on modernc.org/sqlite, for development,
// single-node deployments and store-level tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/repository"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Store is a SQLite-backed order store. Writes are serialized: the pool holds
// a single connection and every transaction begins IMMEDIATE.
type Store struct {
	*Queries
	db     *sql.DB
	logger *slog.Logger
}

// DSN builds the connection string for path with the pragmas the store
// relies on.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", path)
}

// Open opens (creating if needed) the database at path. Run migrations
// against DB() before use.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite has a single writer; one connection keeps transactions from
	// tripping over each other's locks.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	logger.Info("sqlite store opened", "path", path)

	return &Store{
		Queries: &Queries{db: db},
		db:      db,
		logger:  logger,
	}, nil
}

// DB returns the underlying handle, for migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ExecTx runs fn inside one IMMEDIATE transaction.
func (s *Store) ExecTx(ctx context.Context, fn func(q repository.Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.Classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(s.Queries.withTx(tx)); err != nil {
		return s.Classify(err)
	}

	if err := tx.Commit(); err != nil {
		return s.Classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// Classify maps SQLite result codes onto domain errors.
func (s *Store) Classify(err error) error {
	if err == nil || repository.IsNoRows(err) {
		return err
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return err
	}

	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		switch {
		case code&0xff == sqlite3.SQLITE_CONSTRAINT && isIdempotencyViolation(serr.Error()):
			return &domain.Error{
				Code:    domain.ECONFLICT,
				Reason:  domain.ReasonDuplicateRequest,
				Op:      "store.sqlite",
				Message: domain.ErrIdempotencyReplay.Message,
				Err:     err,
			}
		case code&0xff == sqlite3.SQLITE_BUSY, code&0xff == sqlite3.SQLITE_LOCKED:
			return &domain.Error{
				Code:    domain.ECONFLICT,
				Reason:  domain.ReasonSerializationFailure,
				Op:      "store.sqlite",
				Message: domain.ErrSerializationFailure.Message,
				Err:     err,
			}
		case code&0xff == sqlite3.SQLITE_IOERR, code&0xff == sqlite3.SQLITE_FULL, code&0xff == sqlite3.SQLITE_CANTOPEN:
			return domain.Unavailable(err, "store.sqlite", "Storage temporarily unavailable")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Unavailable(err, "store.sqlite", "Storage operation timed out")
	}

	return domain.Internal(err, "store.sqlite", "Storage operation failed")
}

// isIdempotencyViolation reports whether msg is the unique violation on
// (customer_id, idempotency_key).
func isIdempotencyViolation(msg string) bool {
	return strings.Contains(msg, "UNIQUE") && strings.Contains(msg, "idempotency_key")
}
