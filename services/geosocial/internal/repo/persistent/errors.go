package persistent

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"geosocial/pkg/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	// Raised when a path id is not a valid uuid.
	pgInvalidTextRepresentation = "22P02"
)

// ErrDuplicate matches any unique-constraint violation reported by the store.
var ErrDuplicate = errors.New("duplicate key")

// DuplicateError is a unique-constraint violation. Constraint is empty when
// the driver does not report it.
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("duplicate key violates %s", e.Constraint)
	}
	return "duplicate key"
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// translateError maps driver and gorm errors onto the apperr kinds. notFound
// is the message used when no row matched.
func translateError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return apperr.Transient("store timed out", err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || errors.Is(err, driver.ErrBadConn) {
		return apperr.Transient("store unavailable", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &DuplicateError{Constraint: pgErr.ConstraintName, Err: err}
		case pgForeignKeyViolation, pgInvalidTextRepresentation:
			return apperr.NotFound(notFound)
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateError{Err: err}
	}

	return fmt.Errorf("store: %w", err)
}
