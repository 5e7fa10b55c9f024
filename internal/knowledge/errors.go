package knowledge

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an entry id does not exist.
var ErrNotFound = errors.New("topic entry not found")

// ErrStoreUnavailable marks transient backend failures. The resolver
// swallows it and falls back to the context default; the admin surface
// reports it to the caller.
var ErrStoreUnavailable = errors.New("knowledge store unavailable")

// ValidationError reports a malformed topic entry on create or update.
// The entry is not persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid topic entry: %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// unavailable wraps a driver error so callers can test errors.Is(err,
// ErrStoreUnavailable) while keeping the cause in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
