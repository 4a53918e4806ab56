package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyHash returns a stable 16 byte hex digest of s. Cache keys use it so
// arbitrary Hangul keywords map to short ASCII keys.
func KeyHash(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}

// ShortHash is the first 8 characters of KeyHash, for log lines.
func ShortHash(s string) string {
	h := KeyHash(s)
	if len(h) >= 8 {
		return h[:8]
	}
	return h
}
