package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"sotto/internal/domain"
)

// NonceBytes is the AES-GCM nonce length prefixed to every ciphertext.
const NonceBytes = 12

func newAEAD(key domain.SecretKey) (stdcipher.AEAD, error) {
	block, err := aes.NewCipher(key.Slice())
	if err != nil {
		return nil, err
	}
	return stdcipher.NewGCM(block)
}

// Encrypt seals plaintext under key with AES-256-GCM and returns a
// transport-safe blob. Safe for concurrent use.
func Encrypt(plaintext []byte, key domain.SecretKey) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Tampering, a wrong key, truncation or a
// malformed blob all fail with domain.ErrDecryptionFailed.
func Decrypt(blob string, key domain.SecretKey) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed blob: %v", domain.ErrDecryptionFailed, err)
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(raw) < NonceBytes+aead.Overhead() {
		return nil, fmt.Errorf("%w: blob too short", domain.ErrDecryptionFailed)
	}
	plaintext, err := aead.Open(nil, raw[:NonceBytes], raw[NonceBytes:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
