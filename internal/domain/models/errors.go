package models

import "errors"

// Sentinel domain errors. Handlers translate these into HTTP statuses; anything
// else is treated as a store fault and surfaced as an opaque 500.
var (
	// ErrValidation marks malformed or missing input, rejected before any
	// store access. Wrap it with the specific message shown to the user.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a missing master record, distinct from a zero-stock item.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is the conflict raised when a requested or issued
	// quantity exceeds the currently available balance.
	ErrInsufficientStock = errors.New("requested quantity exceeds available quantity")

	// ErrRequestClosed is returned when issuing or rejecting a request that has
	// already left the pending state.
	ErrRequestClosed = errors.New("request already issued or rejected")

	// ErrCustodyMismatch is returned when a custody transfer names a holder
	// that no longer matches the equipment's current custodian.
	ErrCustodyMismatch = errors.New("equipment custodian does not match")

	// ErrAlreadyDisposed is returned when disposing a material that has
	// already left the warehouse.
	ErrAlreadyDisposed = errors.New("material already disposed")

	// ErrDuplicateCode is returned when creating a record whose unique code or
	// tag is already taken.
	ErrDuplicateCode = errors.New("code already exists")
)
