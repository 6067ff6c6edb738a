package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PersistenceError wraps any failure coming back from the database layer:
// refused connections, timeouts, constraint violations.
type PersistenceError struct {
	Op   string
	Code string // SQLSTATE, empty when the driver does not expose one
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: sqlstate %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError returns nil when err is nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}

	perr := &PersistenceError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		perr.Code = pgErr.Code
	}
	return perr
}

// IsConstraintViolation reports SQLSTATE class 23 (integrity constraint
// violation), e.g. 23502 not_null_violation.
func IsConstraintViolation(err error) bool {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return strings.HasPrefix(pe.Code, "23")
	}
	return false
}
