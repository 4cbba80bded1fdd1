package cache

import (
	"context"
	"time"
)

// Store is the byte-oriented key/value contract shared by the redis and
// memory drivers. Missing or expired keys yield ErrKeyNotFound from Get.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key. A ttl <= 0 keeps the entry until Delete.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key holds a live entry.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the backend answers; chefctl check relies on it.
	Ping(ctx context.Context) error

	Close() error
}
