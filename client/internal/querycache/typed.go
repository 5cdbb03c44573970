package querycache

import (
	"context"
	"fmt"
)

// FetchAs is Fetch with a typed fetcher.
func FetchAs[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) { return fn(ctx) })
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](key, v)
}

// FetchAsIn is FetchIn with a typed fetcher.
func FetchAsIn[T any](ctx context.Context, c *Cache, epoch uint64, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.FetchIn(ctx, epoch, key, func(ctx context.Context) (any, error) { return fn(ctx) })
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](key, v)
}

// GetAs is Get with a type assertion.
func GetAs[T any](c *Cache, key Key) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func as[T any](key Key, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %s holds %T", key, v)
	}
	return t, nil
}
