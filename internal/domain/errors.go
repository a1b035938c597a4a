package domain

import "errors"

var (
	// ErrInvalidInput marks malformed caller input (e.g. a non-boolean
	// approval payload). Surfaced as a validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable marks channel-source timeout/network/parse
	// failures. Always masked by the fallback dataset, never returned to
	// API callers.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
