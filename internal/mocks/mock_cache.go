package mocks

import (
	"context"
	"time"

	"github.com/ferhatdonmez/movie-discovery/internal/cache"
)

// StubCache is a lightweight function-backed cache for handler tests.
// Unset functions behave like an always-cold, always-healthy cache.
type StubCache struct {
	GetFunc           func(ctx context.Context, key string) ([]byte, error)
	SetFunc           func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc        func(ctx context.Context, key string) error
	DeletePatternFunc func(ctx context.Context, pattern string) error
}

func (s *StubCache) Get(ctx context.Context, key string) ([]byte, error) {
	if s.GetFunc == nil {
		return nil, cache.ErrMiss
	}
	return s.GetFunc(ctx, key)
}

func (s *StubCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.SetFunc == nil {
		return nil
	}
	return s.SetFunc(ctx, key, value, ttl)
}

func (s *StubCache) Delete(ctx context.Context, key string) error {
	if s.DeleteFunc == nil {
		return nil
	}
	return s.DeleteFunc(ctx, key)
}

func (s *StubCache) DeletePattern(ctx context.Context, pattern string) error {
	if s.DeletePatternFunc == nil {
		return nil
	}
	return s.DeletePatternFunc(ctx, pattern)
}
