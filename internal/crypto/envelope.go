package crypto

import (
	"crypto/rand"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"sotto/internal/util/memzero"
)

const (
	// SaltBytes is the Argon2 salt length for at-rest sealing.
	SaltBytes = 16

	kekBytes = chacha20poly1305.KeySize
)

type sealedRecord struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	CT    []byte `json:"ct"`
}

// deriveKEK derives a key-encryption key from a passphrase and salt using
// Argon2id.
func deriveKEK(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1<<16, 8, 1, kekBytes)
}

// SealRecord encrypts plaintext under a KEK derived from the passphrase and
// returns a self-describing blob suitable for storage.
func SealRecord(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	kek := deriveKEK(passphrase, salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, plaintext, salt)
	return json.Marshal(sealedRecord{Salt: salt, Nonce: nonce, CT: ct})
}

// OpenRecord reverses SealRecord. A wrong passphrase or corrupted blob fails
// authentication.
func OpenRecord(passphrase string, blob []byte) ([]byte, error) {
	var rec sealedRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, err
	}
	if len(rec.Salt) != SaltBytes {
		return nil, errors.New("invalid salt size")
	}
	kek := deriveKEK(passphrase, rec.Salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, rec.Nonce, rec.CT, rec.Salt)
}
