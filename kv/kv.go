package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by [Store.Get] when the key does not exist or
	// its TTL has elapsed.
	ErrNotFound = errors.New("kv: key not found")
	// ErrUnavailable wraps transport-level failures talking to the store.
	ErrUnavailable = errors.New("kv: store unavailable")
)

// Store is the engine's view of the shared external cache. Implementations
// must make every call individually atomic; network timeouts are the
// implementation's responsibility, not the caller's.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// SetMinutes stores value under key with a TTL of the given whole minutes.
	SetMinutes(ctx context.Context, key, value string, minutes int64) error

	// SetSeconds stores value under key with a TTL of the given whole seconds.
	SetSeconds(ctx context.Context, key, value string, seconds int64) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// IncrementMinutes atomically increments the integer at key and returns
	// the new count. The TTL is applied only when the increment created the
	// key (count == 1); later increments leave the window untouched.
	IncrementMinutes(ctx context.Context, key string, minutes int64) (int64, error)
}
