// Package cache stores derived artifacts (fetched dataset documents and
// computed layouts) so repeated CLI runs and server restarts skip work.
//
// Three backends implement [Cache]: [FileCache] for local CLI use,
// [RedisCache] for a shared server deployment and [NullCache] to disable
// caching. Keys come from a [Keyer] so backends never invent their own
// naming.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default lifetimes.
const (
	// TTLDataset bounds how long a fetched remote document is reused.
	TTLDataset = 6 * time.Hour
	// TTLLayout is zero: layouts are keyed by content hash and never go stale.
	TTLLayout time.Duration = 0
)
