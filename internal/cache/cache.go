// Package cache provides a small TTL cache abstraction with in-memory and
// Redis backends. Values are stored as JSON so either backend is
// interchangeable.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss reports an absent or expired key.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is the store-and-retrieve contract used across the services. Get
// unmarshals into dest; a miss returns ErrCacheMiss, never a partial write.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// IsMiss reports whether err is a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
