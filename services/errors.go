package services

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested submission id has no matching record.
var ErrNotFound = errors.New("submission not found")

// ErrConflict indicates a compare-and-swap write lost to a concurrent edit of
// the same submission. The caller should re-fetch and retry.
var ErrConflict = errors.New("submission was modified by another reviewer")

// ValidationError rejects a request before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
