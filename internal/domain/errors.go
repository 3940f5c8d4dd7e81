package domain

import "errors"

var (
	// ErrNotFound is returned when a storage key or catalog item does not exist
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable is returned when durable storage cannot be read or written
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrAPIFailure is returned when a commerce API request fails
	ErrAPIFailure = errors.New("commerce API request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStaleResponse marks a favorites response superseded by a newer
	// request for the same product. It is a control-flow signal, never
	// surfaced to callers.
	ErrStaleResponse = errors.New("stale response discarded")
)
