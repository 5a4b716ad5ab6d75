// Package cache defines the key-value store interface backing session state.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for key-value store operations. The session
// store only relies on get-latest and whole-value replace; there is no
// update-in-place primitive.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the default TTL is used.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Keys returns all keys matching the given pattern. Used by the
	// background sweep; not on any per-turn path.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Ping checks if the cache connection is alive.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
