package coaching

import "errors"

var (
	// ErrValidation is the only engine error surfaced to callers, and only
	// on event ingestion.
	ErrValidation = errors.New("invalid behavior event")

	// ErrPersistence marks a store failure. The engine degrades to safe
	// defaults instead of propagating it past the service boundary.
	ErrPersistence = errors.New("coaching store unavailable")

	// ErrLLMUnavailable marks a completion timeout or a bad response shape.
	// The insight path falls back to rule-based candidates.
	ErrLLMUnavailable = errors.New("completion service unavailable")
)
