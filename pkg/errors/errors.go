package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrMissingField indicates a required submission field was absent or empty
	ErrMissingField = errors.New("missing field")

	// ErrInvalidPhone indicates the contact number failed the digit-format check
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrStorage indicates a persistence layer failure
	ErrStorage = errors.New("storage error")

	// ErrNotification indicates a mail dispatch failure
	ErrNotification = errors.New("notification error")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// FieldError is a validation rejection tied to a specific request field.
// It unwraps to one of the taxonomy sentinels so callers can dispatch with
// errors.Is while still naming the field with errors.As.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// MissingFieldError creates a missing field error naming the field
func MissingFieldError(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

// InvalidPhoneError creates an invalid phone error with the offending value
func InvalidPhoneError(value string) error {
	return fmt.Errorf("%q: %w", value, ErrInvalidPhone)
}

// StorageError wraps a persistence failure
func StorageError(err error) error {
	return fmt.Errorf("%v: %w", err, ErrStorage)
}

// NotificationError wraps a mail dispatch failure
func NotificationError(err error) error {
	return fmt.Errorf("%v: %w", err, ErrNotification)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
