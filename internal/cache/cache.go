// Package cache provides a TTL-bounded key-value cache used for short-token
// aliases and other small, expirable lookups. The interface mirrors an external
// cache service (set/get/delete with TTL) so the in-memory implementation can
// be swapped for a networked one without touching callers.
package cache

import "time"

// Cache defines TTL-bounded key-value operations.
type Cache interface {
	// Set stores value under key for the given TTL. A non-positive TTL is
	// treated as already expired.
	Set(key, value string, ttl time.Duration)

	// Get returns the value for key and whether it exists and has not expired.
	Get(key string) (string, bool)

	// Delete removes key if present.
	Delete(key string)
}
