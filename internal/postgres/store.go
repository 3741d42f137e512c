package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Isolation levels accepted by NewStore.
const (
	IsolationReadCommitted = "read_committed"
	IsolationSerializable  = "serializable"
)

// SQLSTATE codes the store classifies.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeLockNotAvailable     = "55P03"

	idempotencyConstraint = "orders_customer_idempotency_key"

	rollbackTimeout = 5 * time.Second
)

// Store is the pgxpool-backed order store.
type Store struct {
	*repository.Queries
	pool      *pgxpool.Pool
	isolation pgx.TxIsoLevel
	logger    *slog.Logger
}

// NewStore wraps pool. isolation is "read_committed" (the default) or
// "serializable"; stock is protected by the conditional decrement at either
// level, serializable additionally turns write skew into retryable conflicts.
func NewStore(pool *pgxpool.Pool, isolation string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var level pgx.TxIsoLevel
	switch isolation {
	case "", IsolationReadCommitted:
		level = pgx.ReadCommitted
	case IsolationSerializable:
		level = pgx.Serializable
	default:
		return nil, fmt.Errorf("unsupported isolation level %q", isolation)
	}

	return &Store{
		Queries:   repository.New(pool),
		pool:      pool,
		isolation: level,
		logger:    logger,
	}, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ExecTx runs fn in one transaction at the configured isolation level.
// The transaction is rolled back on every exit that does not commit,
// including a panic in fn.
func (s *Store) ExecTx(ctx context.Context, fn func(q repository.Querier) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: s.isolation})
	if err != nil {
		return s.Classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer s.rollback(tx)

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return s.Classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return s.Classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// rollback ends tx unless it already committed. It uses a fresh context so a
// cancelled request still releases its connection and row locks.
func (s *Store) rollback(tx pgx.Tx) {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.logger.Debug("rollback failed", "error", err)
	}
}

// Classify maps Postgres failures onto domain errors:
//
//   - 40001, 40P01, 55P03: retryable serialization conflict
//   - 23505 on the idempotency constraint: retryable duplicate request
//   - classes 08, 53, 57P and connection errors safe to retry: unavailable
//   - anything else: internal
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

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeSerializationFailure,
			pgErr.Code == codeDeadlockDetected,
			pgErr.Code == codeLockNotAvailable:
			return &domain.Error{
				Code:    domain.ECONFLICT,
				Reason:  domain.ReasonSerializationFailure,
				Op:      "store.postgres",
				Message: domain.ErrSerializationFailure.Message,
				Err:     err,
			}
		case pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == idempotencyConstraint:
			return &domain.Error{
				Code:    domain.ECONFLICT,
				Reason:  domain.ReasonDuplicateRequest,
				Op:      "store.postgres",
				Message: domain.ErrIdempotencyReplay.Message,
				Err:     err,
			}
		case strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57P"):
			return domain.Unavailable(err, "store.postgres", "Database temporarily unavailable")
		}
		return domain.Internal(err, "store.postgres", "Database operation failed")
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return domain.Unavailable(err, "store.postgres", "Database temporarily unavailable")
	}

	return domain.Internal(err, "store.postgres", "Database operation failed")
}
