package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrMultiRowAnomaly means an id-keyed statement touched more than one
	// row. That can only happen if the schema's uniqueness guarantees are
	// broken, so callers must treat it as fatal, never retry or swallow it.
	ErrMultiRowAnomaly = errors.New("statement affected more than one row")
)

// ValidationError marks input problems the caller can fix; the HTTP layer
// maps it to 400 and everything else to 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
