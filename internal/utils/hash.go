package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the lowercase hex digest of s. Deterministic on
// purpose: the store correlates repeat signups by comparing digests.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
