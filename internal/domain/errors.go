package domain

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrSerializationFailure = errors.New("serialization failure")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("seat already reserved")
	ErrStorage              = errors.New("storage unavailable")
	ErrUnauthorized         = errors.New("administrator authentication required")
)

// ValidationError is a rejected request. Message is shown to the end user
// as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// StorageError marks err as a storage fault so callers can match it with
// errors.Is(err, ErrStorage).
func StorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, op), ErrStorage)
}
