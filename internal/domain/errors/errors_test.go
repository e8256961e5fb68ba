package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTransientError(t *testing.T) {
	assert.Nil(t, NewTransientError("claim", nil))

	cause := errors.New("connection reset")
	err := NewTransientError("claim", cause)
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, cause)

	cfg := &ConfigurationError{EventID: "evt_1", PriceID: "price_x", Err: errors.New("missing")}
	wrapped := NewTransientError("apply", fmt.Errorf("dispatch: %w", cfg))
	var got *ConfigurationError
	assert.True(t, errors.As(wrapped, &got))
	assert.False(t, IsTransient(wrapped))

	again := NewTransientError("outer", err)
	assert.Same(t, err, again)
}

func TestIsTransient_Context(t *testing.T) {
	assert.True(t, IsTransient(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.True(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(ErrInvalidEvent))
}
