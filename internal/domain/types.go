package domain

import "fmt"

// UserID identifies a user account on the directory and transport.
type UserID string

// ConversationID groups all messages exchanged between two users. It is
// computed, never stored as its own record.
type ConversationID string

// ConversationIDFor derives the identifier for the conversation between a
// and b. The derivation is symmetric: ConversationIDFor(a, b) equals
// ConversationIDFor(b, a) for every pair. The first ID is length-prefixed so
// the split point is unambiguous even when user IDs contain the separator.
func ConversationIDFor(a, b UserID) ConversationID {
	if b < a {
		a, b = b, a
	}
	return ConversationID(fmt.Sprintf("%d#%s#%s", len(a), a, b))
}

// PublicKey is serialized ECDH public-key material (uncompressed P-384 point).
type PublicKey []byte

// PrivateKey is serialized ECDH private-key material. It never leaves the
// device.
type PrivateKey []byte

// SecretKey is a 256-bit symmetric key derived from a key agreement.
type SecretKey [32]byte

// Slice returns the key material as a byte slice.
func (k SecretKey) Slice() []byte { return k[:] }

// KeyPair is the long-lived identity key pair. Exactly one exists per local
// user; it is immutable once persisted.
type KeyPair struct {
	Public  PublicKey  `json:"public"`
	Private PrivateKey `json:"private"`
}

// SharedSecretEntry caches the symmetric key agreed with one peer. At most
// one live entry exists per peer per device; it is immutable once written.
type SharedSecretEntry struct {
	PeerID     UserID    `json:"peer_id"`
	Key        SecretKey `json:"key"`
	CreatedUTC int64     `json:"created_utc"`
}

// StoredMessage is a locally persisted plaintext message.
type StoredMessage struct {
	ID             string         `json:"id"`
	ConversationID ConversationID `json:"conversation_id"`
	SenderID       UserID         `json:"sender_id"`
	ReceiverID     UserID         `json:"receiver_id"`
	Body           string         `json:"body"`
	CreatedAt      int64          `json:"created_at"` // Unix milliseconds
}

// Envelope is the wire message handed to the transport. Cipher carries the
// encoded nonce-prefixed ciphertext; plaintext never appears here. The ID is
// generated by the sender so redelivered envelopes deduplicate on receipt.
type Envelope struct {
	ID        string `json:"id"`
	From      UserID `json:"from"`
	To        UserID `json:"to"`
	Cipher    string `json:"cipher"`
	SentAtUTC int64  `json:"sent_at_utc"` // Unix milliseconds
}
