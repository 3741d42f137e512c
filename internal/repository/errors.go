package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is returned by single-row queries that match nothing. Every
// Querier implementation reports a missing row with this value.
var ErrNoRows = pgx.ErrNoRows

// IsNoRows reports whether err means the query matched no row.
func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows)
}
