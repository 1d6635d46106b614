// Package postgres implements the credential store on PostgreSQL.
//
// Users live in the users table; favourites and history are rows of
// user_items ordered by their serial id, which keeps insertion order and lets
// a unique constraint provide set semantics.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"useraccounts/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type queryer interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isInvalidIdentifier reports a malformed uuid literal (22P02), which can only
// mean the identifier does not name a user.
func isInvalidIdentifier(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}
