// Package cache provides the time-bounded key-value capability the pipeline
// uses to reuse a season's normalized-play table across requests. It is an
// injected dependency so tests can run against an in-process fake.
package cache

import (
	"context"
	"time"
)

// Cache is a shared, read-mostly byte store with per-key expiry. There is no
// explicit invalidation beyond TTL expiry, and no single-flight
// de-duplication: concurrent misses for the same key may each recompute.
type Cache interface {
	// Get returns the value for key and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// None is a Cache that stores nothing; every Get is a miss. Used when the
// pipeline runs without a cache backend.
type None struct{}

func (None) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (None) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }
