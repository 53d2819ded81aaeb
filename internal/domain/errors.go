package domain

import "errors"

var (
	// ErrEncryptionUnavailable reports that identity key generation failed.
	// Fatal to the session; sending must stay blocked.
	ErrEncryptionUnavailable = errors.New("encryption unavailable")

	// ErrPersistence reports a local storage read or write failure. Callers
	// may retry the operation; the core never retries on its own.
	ErrPersistence = errors.New("persistence failure")

	// ErrPeerNotConfigured reports that the peer has not published a public
	// key yet. Recoverable; surfaced to the user, not retried automatically.
	ErrPeerNotConfigured = errors.New("peer has no published encryption key")

	// ErrKeyAgreement reports malformed or incompatible peer key material.
	// Fatal for that peer until the peer republishes a valid key.
	ErrKeyAgreement = errors.New("key agreement failed")

	// ErrDecryptionFailed reports an authentication failure on a received
	// payload. The message is dropped, never shown as plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")
)
