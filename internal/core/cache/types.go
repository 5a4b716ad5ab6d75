// Package cache provides the cache type constants.
package cache

// Type identifies the configured cache backend.
type Type string

const (
	// TypeRedis backs the session store with Redis.
	TypeRedis Type = "redis"
)
