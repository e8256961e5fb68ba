package repository

import "errors"

var (
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")

	// ErrZeroDelta is returned when a ledger row without effect is inserted.
	ErrZeroDelta = errors.New("ledger delta must not be zero")
)
