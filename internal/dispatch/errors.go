package dispatch

import "errors"

// Operation registration errors, carried over 1:1 in spirit from the
// teacher's internal/tools/errors.go sentinel set.
var (
	// ErrOperationNameEmpty is returned when an operation has no name.
	ErrOperationNameEmpty = errors.New("operation name cannot be empty")

	// ErrOperationHandlerNil is returned when an operation has no handler.
	ErrOperationHandlerNil = errors.New("operation handler cannot be nil")

	// ErrOperationAlreadyRegistered is returned when registering a duplicate.
	ErrOperationAlreadyRegistered = errors.New("operation already registered")

	// ErrOperationNotFound is returned when dispatching an unregistered name.
	ErrOperationNotFound = errors.New("operation not found")
)
