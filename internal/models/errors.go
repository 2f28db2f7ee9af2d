package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets an entity that no longer
// exists, e.g. a double-delete. Callers treat it as a benign failure.
var ErrNotFound = errors.New("entity not found")

// ErrFormat is returned when the CSV export encounters a value it cannot
// render. The export fails as a whole; no partial output is produced.
var ErrFormat = errors.New("unrepresentable value")

// ValidationError rejects invalid input before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
