package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. non-positive capacity, unknown status value).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrInvalidState is returned when an operation is attempted on a candidacy
// whose status does not allow it (e.g. approving an already-approved
// candidacy). Handlers should map this to HTTP 409 so the caller knows to
// re-fetch current state.
var ErrInvalidState = errors.New("invalid state")

// ErrInsufficientCapacity is returned by the admission service when approving
// a candidacy would exceed the trip's seat capacity. It is distinct from
// ErrValidation so callers can offer the waitlist or cost-assistance track
// instead of treating the failure as a bad request bug.
// Handlers should map this to HTTP 400 with code "insufficient_capacity".
var ErrInsufficientCapacity = errors.New("insufficient capacity")
