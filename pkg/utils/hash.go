package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString returns a short, stable, non-reversible key for an identifier
// supplied by a client. Used to keep raw client ids out of storage keys.
func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:12])
}
