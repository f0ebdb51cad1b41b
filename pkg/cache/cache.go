// Package cache persists encoded dependency streams between builds.
//
// A build reuses the dependencies it extracted from a module as long as the
// module's source is unchanged. The pipeline keys each entry by module ID
// and source hash (see [Keyer]) and stores the record stream produced by
// dependency.WriteAll as an opaque byte slice.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default).
//   - [MemoryCache]: bounded in-process LRU (serve mode, tests).
//   - [RedisCache]: shared cache for several build hosts.
//   - [MongoCache]: shared cache with server-side expiry.
//   - [NullCache]: caching disabled.
//
// Backends treat values as bytes. Deciding whether a stored stream can still
// be decoded is the caller's job: an entry whose kinds are no longer
// registered is deleted and rebuilt, never partially reused.
package cache

import (
	"context"
	"time"
)

// Cache stores byte values under string keys with a time-to-live.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl <= 0 means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs per entry class.
const (
	// TTLDependencies bounds how long an extracted dependency stream is
	// trusted. The key already changes with the source, so this only
	// limits growth.
	TTLDependencies = 7 * 24 * time.Hour
)

// DefaultTTL is used by backends whose configuration leaves ttl unset.
const DefaultTTL = TTLDependencies
