package domain

import "context"

// IdentityStore persists the local long-term key pair, sealed under a
// passphrase-derived key, plus a marker recording whether the public half
// has reached the directory.
type IdentityStore interface {
	SaveKeyPair(passphrase string, kp KeyPair) error
	LoadKeyPair(passphrase string) (KeyPair, bool, error)
	SetPublished() error
	Published() (bool, error)
}

// SecretStore persists derived per-peer shared secrets.
type SecretStore interface {
	SaveSecret(e SharedSecretEntry) error
	LoadSecret(peer UserID) (SharedSecretEntry, bool, error)
	DeleteSecret(peer UserID) error
}

// MessageStore is the durable local plaintext message store.
type MessageStore interface {
	Append(m StoredMessage) error
	ListByConversation(id ConversationID) ([]StoredMessage, error)
	ClearAll() error
}

// IdentityService owns the identity key-pair lifecycle.
type IdentityService interface {
	// EnsureKeyPair returns the persisted pair, generating and persisting one
	// first if absent. The boolean reports whether the pair was just created.
	EnsureKeyPair() (KeyPair, bool, error)
	// NeedsPublish reports whether the public half still has to reach the
	// directory. It stays true until MarkPublished, so a failed publish is
	// retried on the next session start instead of being lost.
	NeedsPublish() (bool, error)
	MarkPublished() error
	Fingerprint() (string, error)
}

// SecretService derives and caches per-peer shared secrets.
type SecretService interface {
	GetOrDerive(peer UserID, myPrivate PrivateKey, peerPublic PublicKey) (SecretKey, error)
	GetCached(peer UserID) (SecretKey, bool, error)
}

// Directory is the external user-directory collaborator.
type Directory interface {
	PublishPublicKey(ctx context.Context, user UserID, pub PublicKey) error
	// FetchPublicKey reports ok=false when the peer has not published a key.
	FetchPublicKey(ctx context.Context, peer UserID) (PublicKey, bool, error)
}

// Transport is the external message-delivery collaborator. Delivery is
// at-least-once with no ordering guarantee across senders.
type Transport interface {
	SendEncrypted(ctx context.Context, env Envelope) error
	// Subscribe streams inbound envelopes for user. The returned cancel
	// function stops the stream and releases the connection; the channel is
	// closed when the stream ends.
	Subscribe(ctx context.Context, user UserID) (<-chan Envelope, func(), error)
}
