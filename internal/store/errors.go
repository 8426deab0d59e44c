package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// StoreError wraps a database failure with the postgres error code and
// a user-facing hint for the recognizable classes.
type StoreError struct {
	Op   string
	Code string
	Hint string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Hint, e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// classify maps a postgres error to a StoreError with a hint where the
// code is recognizable. Unique violations map to ErrConflict so callers
// can branch without inspecting codes.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return &StoreError{Op: op, Err: err}
	}
	switch {
	case pgErr.Code == "23505":
		return &StoreError{Op: op, Code: pgErr.Code, Hint: "duplicate entry", Err: ErrConflict}
	case pgErr.Code == "42P01":
		return &StoreError{Op: op, Code: pgErr.Code, Hint: "table does not exist, run migrations", Err: err}
	case pgErr.Code == "42501":
		return &StoreError{Op: op, Code: pgErr.Code, Hint: "database permission denied", Err: err}
	case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23":
		return &StoreError{Op: op, Code: pgErr.Code, Hint: "constraint violation", Err: err}
	default:
		return &StoreError{Op: op, Code: pgErr.Code, Err: err}
	}
}
