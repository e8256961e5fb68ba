package errors

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent indicates an event that reached the engine without an id
	// or with a payload that does not match its kind.
	ErrInvalidEvent = errors.New("invalid billing event")

	// ErrInvalidReason indicates a ledger reason not allowed for the operation.
	ErrInvalidReason = errors.New("reason not allowed for balance correction")

	// ErrNegativeTarget indicates an attempt to set a balance below zero.
	ErrNegativeTarget = errors.New("target balance must not be negative")

	// ErrInvalidPlan indicates an unknown plan tier or status.
	ErrInvalidPlan = errors.New("invalid plan tier or status")
)

// ConfigurationError is returned when an event references a price the
// catalog does not know. The event is left unhandled so that a provider
// retry can succeed once the catalog is fixed.
type ConfigurationError struct {
	EventID string
	PriceID string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("event %s references unconfigured price %q: %v", e.EventID, e.PriceID, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransientError is returned when a store operation fails or the context
// expires. Nothing was committed and the event should be redelivered.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err unless it already carries a classification.
func NewTransientError(op string, err error) error {
	if err == nil {
		return nil
	}
	var cfgErr *ConfigurationError
	var transient *TransientError
	if errors.As(err, &cfgErr) || errors.As(err, &transient) {
		return err
	}
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err should be retried by the caller.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
