package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validation", NewValidationError("bad input"), CodeValidation},
		{"invalid state", NewInvalidStateError("wrong status"), CodeInvalidState},
		{"allocation overflow", NewAllocationOverflowError("too much"), CodeAllocationOverflow},
		{"not found", NewNotFoundError("missing"), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, HasCode(tt.err, tt.code))
			assert.True(t, IsDomainError(tt.err))
		})
	}
}

func TestDomainError_Predicates(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.True(t, IsInvalidState(NewInvalidStateError("x")))
	assert.True(t, IsAllocationOverflow(NewAllocationOverflowError("x")))
	assert.True(t, IsNotFound(NewNotFoundError("x")))

	assert.False(t, IsValidation(NewNotFoundError("x")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestDomainError_WrappedIsStillRecognized(t *testing.T) {
	wrapped := fmt.Errorf("saving invoice: %w", NewInvalidStateError("cannot issue"))

	assert.True(t, IsInvalidState(wrapped))
	assert.True(t, IsDomainError(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestDomainError_Message(t *testing.T) {
	err := NewValidationError("Subtotal cannot be negative")
	assert.Equal(t, "Subtotal cannot be negative", err.Error())
	assert.Equal(t, CodeValidation, err.Code)
}

func TestIsDomainError_InfrastructureFailure(t *testing.T) {
	assert.False(t, IsDomainError(errors.New("connection refused")))
	assert.False(t, IsDomainError(nil))
}
