package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired. Callers
// must treat any other error as infrastructure failure, not as a miss.
var ErrMiss = errors.New("cache: key not found")

// Cache is the key-value surface shared between the listing service and
// the trending job. Values are opaque serialized payloads; expiry is
// owned by the cache, invalidation by the callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}
