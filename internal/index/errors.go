package index

import "errors"

var (
	// ErrNotFound indicates the requested video id has no row.
	ErrNotFound = errors.New("video not found")
	// ErrInvalidQuery indicates a blank search query.
	ErrInvalidQuery = errors.New("empty search query")
	// ErrInvalidRecord indicates a write with data violating a model
	// invariant (empty id, start >= end, blank text).
	ErrInvalidRecord = errors.New("invalid record")
)
