package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to.
const (
	uniqueViolation = "23505"
)

// isUniqueViolation reports whether err is a unique constraint violation,
// e.g. a Stripe customer or subscription id already owned by another user.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// isNoRows reports whether a QueryRow found nothing. Callers translate this
// to a nil result (no counter yet, no subscription yet).
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
