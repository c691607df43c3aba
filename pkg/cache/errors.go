package cache

import "errors"

var (
	// ErrNotFound reports a missing or expired key. Check with errors.Is;
	// a miss is usually a normal code path, not a failure.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed reports a write against a closed cache.
	ErrClosed = errors.New("cache: closed")

	// ErrMarshal wraps codec failures while storing a value.
	ErrMarshal = errors.New("cache: failed to marshal value")

	// ErrUnmarshal wraps codec failures while reading a value back.
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)
