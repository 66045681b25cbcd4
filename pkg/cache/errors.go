package cache

import "errors"

var (
	// ErrNotFound marks a remote document that does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrNetwork marks transport failures: timeouts, refused connections
	// and 5xx responses.
	ErrNetwork = errors.New("network error")
)
