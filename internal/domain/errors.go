package domain

import "errors"

// Sentinel errors for the engine's failure taxonomy. Services wrap these with
// fmt.Errorf("...: %w", Err...) so callers can classify with errors.Is while
// still seeing the operation that failed.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or insufficient input
	// (empty stop set, unparseable planned date). The caller should fix
	// the input, never retry as-is.
	ErrValidation = errors.New("validation error")

	// ErrPermission is returned when the actor lacks the rights for the
	// requested operation (role or ownership mismatch).
	ErrPermission = errors.New("permission denied")

	// ErrInvalidState is returned when an operation is incompatible with
	// the route's current lifecycle state, e.g. re-confirming a route.
	ErrInvalidState = errors.New("invalid state")
)
