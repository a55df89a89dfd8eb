// Package cache stores extracted node maps so that walking an unchanged
// level skips decoding it.
//
// Entries are keyed by the SHA-256 of the level's raw bytes, so editing a
// map or switching mod versions invalidates them without any bookkeeping.
// The CLI uses [FileCache] under the XDG cache directory; [NullCache]
// disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// keyVersion changes whenever extraction changes the node maps it produces,
// orphaning entries written by older builds.
const keyVersion = "v1"

// NodeMapKey is the cache key of the node map extracted from a level whose
// bytes hash to levelHash.
func NodeMapKey(levelHash string) string {
	return "nodemap:" + keyVersion + ":" + levelHash
}
