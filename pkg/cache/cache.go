// Package cache stores rendered artifacts and other derived bytes keyed by
// content hash.
//
// # Backends
//
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: a shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds keys from their inputs: artifacts are keyed by the hash
// of the zone list they were rendered from plus the render options, so an
// edit to a layout naturally misses the cache. [ScopedKeyer] prefixes every
// key, which separates tenants sharing one Redis.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(zonesJSON), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
//
// Get reports a miss with ok=false and a nil error; errors are reserved for
// backend failures. A zero ttl in Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
