package swr

import "errors"

// Sentinel errors a Renderer's entry points can return, per spec.md
// §7's error-kind taxonomy: invalid state aborts the owning draw only,
// resource exhaustion propagates straight out of get_or_create, and
// the remaining categories (transient contention, out-of-bounds texel
// access) never surface here at all — they are back-pressure or
// in-routine policy, not Go errors.
var (
	// ErrInvalidState means a state key describes a configuration this
	// core cannot build a routine for (e.g. an unsupported format pair).
	ErrInvalidState = errors.New("swr: invalid pipeline state")

	// ErrResourceExhausted means executable-memory allocation failed
	// while building a routine.
	ErrResourceExhausted = errors.New("swr: executable memory exhausted")

	// ErrNoQuery is returned by RemoveQuery when the query was never
	// attached (or was already removed).
	ErrNoQuery = errors.New("swr: query not attached")
)
