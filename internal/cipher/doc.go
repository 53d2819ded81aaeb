// Package cipher implements the stateless message transform: authenticated
// encryption of payloads under a per-peer symmetric key.
//
// The wire format is base64(nonce || ciphertext || tag) with a fresh random
// 96-bit nonce per call, so encrypting the same plaintext twice never yields
// the same blob. Decryption is all-or-nothing: a failed authentication tag
// surfaces domain.ErrDecryptionFailed and no plaintext.
package cipher
