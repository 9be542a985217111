package pgsql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minibank/minibank/internal/apperrors"
)

// Postgres error codes that identify retryable lock/serialization conflicts.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

// mapPgError translates driver-level failures into the application error
// taxonomy. Anything unrecognized is wrapped as-is and reaches the caller as
// an opaque internal failure.
func mapPgError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrTransient, msg, pgErr.Message)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, msg)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
