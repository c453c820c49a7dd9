package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores encoded reports by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyPrefix is bumped whenever the encoded report layout changes
const keyPrefix = "sift-highlight:v1:"

// CacheKey derives a key from the canonical encoding of a render request
func CacheKey(request []byte) string {
	hash := sha256.Sum256(request)
	return keyPrefix + hex.EncodeToString(hash[:])
}

// Stats counts lookups
type Stats struct {
	Hits   int64
	Misses int64
}
