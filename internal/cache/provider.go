package cache

import (
	"context"
	"errors"
	"time"
)

// Provider defines the cache operations used outside the pure analysis core:
// remote corpus bytes and rendered reports.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Close() error
}

// ErrCacheMiss signals that a cache key was not found.
var ErrCacheMiss = errors.New("cache miss")

// NoopProvider satisfies Provider without storing anything; it stands in
// when caching is disabled.
type NoopProvider struct{}

// Get always misses.
func (NoopProvider) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set discards the value.
func (NoopProvider) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Del does nothing.
func (NoopProvider) Del(context.Context, string) error { return nil }

// Close does nothing.
func (NoopProvider) Close() error { return nil }
