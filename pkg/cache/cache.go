// Package cache provides pluggable byte caches for Drawbridge.
//
// The primary consumer is the icon catalog loader, which downloads the
// remote icon bundle once and keeps it across process restarts. Three
// backends are provided:
//   - FileCache: file-based storage for CLI usage
//   - RedisCache: Redis-backed storage for multi-instance deployments
//   - NullCache: no-op cache for tests or when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
//
// Keys are arbitrary strings; callers should namespace them to avoid
// collisions (e.g. "icons:<url>"). A zero TTL means the entry never
// expires.
type Cache interface {
	// Get retrieves a value by key. The second return value reports
	// whether the key was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
