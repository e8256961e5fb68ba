package errors

import "fmt"

// InsufficientCreditsError is returned when a user's balance cannot cover a charge.
type InsufficientCreditsError struct {
	Requested int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: requested %d, available %d", e.Requested, e.Available)
}

// NewInsufficientCreditsError creates a new InsufficientCreditsError
func NewInsufficientCreditsError(requested, available int64) *InsufficientCreditsError {
	return &InsufficientCreditsError{
		Requested: requested,
		Available: available,
	}
}
