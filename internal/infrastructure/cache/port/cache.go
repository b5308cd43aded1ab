package port

import (
	"context"
	"errors"
	"time"
)

// ErrMiss signals that a key does not exist, as opposed to a transport error.
var ErrMiss = errors.New("cache: miss")

// Cache is the key-value contract used for presence flags and other
// best-effort runtime state. Implementations must be concurrency-safe.
type Cache interface {
	// Get returns the value at key, or ErrMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. A zero or negative ttl means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	Close() error
}
