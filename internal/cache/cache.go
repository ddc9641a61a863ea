// Package cache provides the TTL cache used for upstream API responses.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque values with a time to live.
type Cache interface {
	// Get returns the value for key. Expired entries are reported as missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	// InvalidatePrefix drops every key starting with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// GetJSON decodes a cached JSON value into T.
// A value that no longer decodes is treated as a miss.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var zero T
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false, nil
	}
	return v, true, nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON[T any](ctx context.Context, c Cache, key string, v T, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, raw, ttl)
}

// Fetch returns the cached value for key or calls load and caches its result.
// Load errors are returned and not cached.
func Fetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c != nil {
		if v, ok, err := GetJSON[T](ctx, c, key); err == nil && ok {
			return v, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		_ = SetJSON(ctx, c, key, v, ttl)
	}
	return v, nil
}
