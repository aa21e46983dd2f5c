package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidTTL is returned when a cache write is attempted with a non-positive time-to-live.
	ErrInvalidTTL = zerr.New("ttl must be positive")

	// ErrCorruptSnapshot is returned when a persisted cache blob cannot be decoded.
	ErrCorruptSnapshot = zerr.New("corrupt cache snapshot")

	// ErrInvalidChain is returned when a cursor list violates the chain invariants.
	ErrInvalidChain = zerr.New("invalid cursor chain")

	// ErrInvalidCursor is returned by a data source that cannot resolve a cursor token.
	ErrInvalidCursor = zerr.New("invalid cursor")

	// ErrStaleResult is returned when a page arrives after the view moved on to another request.
	ErrStaleResult = zerr.New("stale page result")

	// ErrReplayFailed is returned when a jump could not discover the cursor for its target page.
	ErrReplayFailed = zerr.New("page replay failed")

	// ErrSessionClosed is returned when a session is used after teardown.
	ErrSessionClosed = zerr.New("session closed")

	// ErrInvalidConfig is returned when the configuration file holds unusable values.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrPageOutOfRange is returned when a listing asks for a page beyond the result set.
	ErrPageOutOfRange = zerr.New("page out of range")

	// ErrInvalidTarget is returned when an invalidation names no target or more than one.
	ErrInvalidTarget = zerr.New("exactly one of scope, key or prefix is required")

	// ErrUnknownScope is returned when a list is requested for a scope no source serves.
	ErrUnknownScope = zerr.New("unknown scope")
)
