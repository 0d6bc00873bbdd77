package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/estatehub/estatehub/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	err := apperrors.NewNotFoundError("property not found")
	assert.Equal(t, "NOT_FOUND: property not found", err.Error())

	wrapped := apperrors.NewInternalError("query failed", assert.AnError)
	assert.Contains(t, wrapped.Error(), "INTERNAL: query failed")
	assert.ErrorIs(t, wrapped, assert.AnError)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(apperrors.NewValidationError("bad input")))
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(assert.AnError))

	// Wrapped AppErrors are still classified.
	wrapped := fmt.Errorf("outer: %w", apperrors.NewNotFoundError("gone"))
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(wrapped))
	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeNotFound))
}

func TestFromStore(t *testing.T) {
	t.Run("cancellation becomes cancelled", func(t *testing.T) {
		err := apperrors.FromStore("query aborted", context.Canceled)
		assert.Equal(t, apperrors.ErrorTypeCancelled, err.Type)

		err = apperrors.FromStore("query timed out", context.DeadlineExceeded)
		assert.Equal(t, apperrors.ErrorTypeCancelled, err.Type)
	})

	t.Run("wrapped cancellation is still recognized", func(t *testing.T) {
		err := apperrors.FromStore("query aborted", fmt.Errorf("driver: %w", context.Canceled))
		assert.Equal(t, apperrors.ErrorTypeCancelled, err.Type)
	})

	t.Run("anything else becomes unavailable", func(t *testing.T) {
		err := apperrors.FromStore("connection refused", assert.AnError)
		assert.Equal(t, apperrors.ErrorTypeUnavailable, err.Type)
	})
}
