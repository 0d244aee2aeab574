// Package checksum provides the content digests used to detect cache
// rewrites and to key on-disk remote response caches.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ShortKey returns a 16-character digest prefix, compact enough for
// cache file names while keeping collisions implausible.
func ShortKey(data []byte) string {
	return Sum(data)[:16]
}
