package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFieldError(t *testing.T) {
	err := MissingFieldError("fullName")

	assert.True(t, Is(err, ErrMissingField))
	assert.False(t, Is(err, ErrInvalidPhone))

	var fieldErr *FieldError
	require.True(t, stderrors.As(err, &fieldErr))
	assert.Equal(t, "fullName", fieldErr.Field)
	assert.Contains(t, err.Error(), "fullName")
}

func TestInvalidPhoneError(t *testing.T) {
	err := InvalidPhoneError("12345")

	assert.True(t, Is(err, ErrInvalidPhone))
	assert.Contains(t, err.Error(), "12345")
}

func TestStorageError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StorageError(cause)

	assert.True(t, Is(err, ErrStorage))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNotificationError(t *testing.T) {
	err := NotificationError(stderrors.New("smtp timeout"))
	assert.True(t, Is(err, ErrNotification))
}
