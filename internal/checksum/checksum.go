// Package checksum fingerprints dataset content and cache keys.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Tag returns a quoted, 32-character strong entity tag over parts.
// Parts are joined with a separator that cannot be confused with a
// shifted boundary between adjacent parts.
func Tag(parts ...string) string {
	return `"` + Sum([]byte(strings.Join(parts, "\x1f")))[:32] + `"`
}
