// Package cache memoizes computed listing pages for a short time.
//
// A Store keeps opaque byte values under fully-qualified keys with a
// per-entry TTL; expiry is the only invalidation. PageCache layers a typed
// JSON codec on top so handlers work with their own page values.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Store is a time-boxed key/value store.
type Store interface {
	// Get returns the value stored under key, or ok=false when it is absent or expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key for ttl, replacing any previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every entry.
	Clear(ctx context.Context) error
}

// Key joins the route, the filtering dimensions and the page number into a
// fully-qualified cache key, e.g. Key("posts", "index", "page=2").
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// PageCache stores values of type T in a Store as JSON.
type PageCache[T any] struct {
	store Store
}

// NewPageCache creates a typed cache over store.
func NewPageCache[T any](store Store) *PageCache[T] {
	return &PageCache[T]{store: store}
}

// Get returns the cached value for key, if any.
func (c *PageCache[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("decode cached %q: %w", key, err)
	}
	return &v, true, nil
}

// Set caches v under key for ttl.
func (c *PageCache[T]) Set(ctx context.Context, key string, v *T, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q for cache: %w", key, err)
	}
	return c.store.Set(ctx, key, raw, ttl)
}

// Clear drops every cached page.
func (c *PageCache[T]) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}
