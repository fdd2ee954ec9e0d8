package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable key from its parts. Parts are case-folded and
// whitespace-collapsed so equivalent queries share an entry.
func CacheKey(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.Join(strings.Fields(strings.ToLower(p)), " ")
	}
	hash := sha256.Sum256([]byte(strings.Join(normalized, "\x00")))
	return "lexcore:v1:" + hex.EncodeToString(hash[:])
}
