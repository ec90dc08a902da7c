package cache

import (
	"context"
	"time"
)

// Cache is the contract for the caching layer so that the Redis
// implementation can be swapped for an in-memory one in tests.
type Cache interface {
	// Get looks up key and unmarshals the cached JSON into dest.
	// found == false means a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set marshals value to JSON and stores it under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
