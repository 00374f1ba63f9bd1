// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a byte store with per-entry TTLs. Three backends exist:
// [FileCache] for the CLI, [RedisCache] for a shared server deployment and
// [NullCache] when caching is off. Keys come from a [Keyer] so every caller
// derives the same key for the same graph and options.
//
// Builds are never cached: the document tree is the source of truth and
// changes underneath us. Layouts are keyed by a hash of the graph content,
// so a rebuild that yields the same graph reuses the cached layout.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value byte store.
//
// Get reports a miss as (nil, false, nil); a non-nil error means the backend
// failed, and callers treat it like a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
