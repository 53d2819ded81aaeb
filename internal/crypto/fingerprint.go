package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint renders a public key as a short hex digest for display and
// comparison: the first 12 bytes of its SHA-256 hash.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:12])
}
