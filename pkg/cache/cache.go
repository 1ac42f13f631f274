// Package cache stores rendered artifacts and layouts keyed by content hash.
//
// Backends share one small interface: [FileCache] for the CLI,
// [MemoryCache] (an LRU) for a single server process, [RedisCache] for
// servers sharing a cache, and [NullCache] when caching is disabled.
// Keys come from a [Keyer], which hashes every option that affects the
// cached bytes, so a changed option never serves a stale artifact.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
