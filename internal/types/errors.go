package types

import "errors"

// Sentinel errors for the gateway.
var (
	// Lookup errors
	ErrNotFound = errors.New("contract not found")

	// State errors
	ErrInvalidState = errors.New("invalid exchange state")

	// Validation errors
	ErrInvalidAction   = errors.New("invalid order action")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidConfig   = errors.New("invalid configuration")
)
