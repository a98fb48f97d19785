package types

import "errors"

// Validation errors, raised before any I/O happens.
var (
	ErrInvalidIdentity         = errors.New("invalid city identity")
	ErrInvalidItineraryRequest = errors.New("invalid itinerary request")
)

// Itinerary backend errors. Each kind maps to a distinct caller-visible
// failure; none of them is retried automatically.
var (
	ErrBackendNotConfigured = errors.New("generative backend not configured")
	ErrBackendUnavailable   = errors.New("generative backend call failed")
	ErrEmptyResponse        = errors.New("generative backend returned no usable text")
)

// ErrDuplicateKey is the storage uniqueness violation (favorites, comments).
// Repositories map the driver-specific error onto this sentinel so callers
// can treat duplication as a first-class outcome instead of a crash.
var ErrDuplicateKey = errors.New("duplicate key")
