package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	cause := errors.New("connection reset")
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"wrapped unbalanced", fmt.Errorf("%w: debit 10 credit 9", ErrUnbalanced), CodeUnbalanced},
		{"invalid state", fmt.Errorf("post: %w", ErrInvalidState), CodeInvalidState},
		{"persistence", NewPersistenceError("failed to commit", cause), CodePersistenceFailure},
		{"not found", NewNotFoundError("journal entry x"), CodeNotFound},
		{"unknown", cause, CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestAppError_UnwrapAndKind(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := fmt.Errorf("post entry: %w", NewPersistenceError("failed to update balances", cause))

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.StatusCode)
	assert.Contains(t, err.Error(), "deadlock detected")
}
