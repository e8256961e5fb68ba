package errors

import "errors"

var (
	// ErrNoCustomerMapping indicates that the user has no associated Stripe customer
	ErrNoCustomerMapping = errors.New("no customer mapping found for user")

	// ErrUnknownPrice indicates a checkout request for a price outside the catalog
	ErrUnknownPrice = errors.New("price is not offered")
)
