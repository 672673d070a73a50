package kangaroo

import "errors"

// Error kinds surfaced by the solver. Callers that need the boolean
// contract of the flat C interface collapse any of these to false.
var (
	// ErrInvalidPubKey marks a target public key that is malformed hex,
	// has a bad length, or does not lie on the curve.
	ErrInvalidPubKey = errors.New("invalid public key")

	// ErrInvalidRange marks an unparsable or empty search interval.
	ErrInvalidRange = errors.New("invalid range")

	// ErrAlreadyRunning is returned by Start while workers are live.
	ErrAlreadyRunning = errors.New("solver already running")

	// ErrNotInitialized is returned when Start or checkpoint operations
	// are attempted before a successful Initialize.
	ErrNotInitialized = errors.New("solver not initialized")

	// ErrCheckpoint wraps checkpoint I/O, parse and validation failures.
	ErrCheckpoint = errors.New("checkpoint")
)
