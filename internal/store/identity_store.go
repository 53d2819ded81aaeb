package store

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"sotto/internal/crypto"
	"sotto/internal/domain"
)

// The identity bucket holds the local user's key pair and a marker set once
// the public half has been accepted by the directory.
var (
	identityKey  = []byte("self")
	publishedKey = []byte("published")
)

// IdentityBoltStore persists the local key pair, sealed under a passphrase.
type IdentityBoltStore struct {
	db *bolt.DB
}

// NewIdentityBoltStore returns an identity store backed by db.
func NewIdentityBoltStore(db *bolt.DB) *IdentityBoltStore {
	return &IdentityBoltStore{db: db}
}

// SaveKeyPair seals and writes the key pair.
func (s *IdentityBoltStore) SaveKeyPair(passphrase string, kp domain.KeyPair) error {
	raw, err := json.Marshal(kp)
	if err != nil {
		return fmt.Errorf("%w: encode key pair: %v", domain.ErrPersistence, err)
	}
	blob, err := crypto.SealRecord(passphrase, raw)
	if err != nil {
		return fmt.Errorf("%w: seal key pair: %v", domain.ErrPersistence, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIdentity).Put(identityKey, blob)
	})
	if err != nil {
		return fmt.Errorf("%w: write key pair: %v", domain.ErrPersistence, err)
	}
	return nil
}

// LoadKeyPair reads and unseals the key pair. ok=false means none is stored.
func (s *IdentityBoltStore) LoadKeyPair(passphrase string) (domain.KeyPair, bool, error) {
	var blob []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketIdentity).Get(identityKey); v != nil {
			blob = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return domain.KeyPair{}, false, fmt.Errorf("%w: read key pair: %v", domain.ErrPersistence, err)
	}
	if blob == nil {
		return domain.KeyPair{}, false, nil
	}
	raw, err := crypto.OpenRecord(passphrase, blob)
	if err != nil {
		return domain.KeyPair{}, false, fmt.Errorf("%w: unseal key pair: %v", domain.ErrPersistence, err)
	}
	var kp domain.KeyPair
	if err := json.Unmarshal(raw, &kp); err != nil {
		return domain.KeyPair{}, false, fmt.Errorf("%w: decode key pair: %v", domain.ErrPersistence, err)
	}
	return kp, true, nil
}

// SetPublished records that the public key reached the directory.
func (s *IdentityBoltStore) SetPublished() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIdentity).Put(publishedKey, []byte{1})
	})
	if err != nil {
		return fmt.Errorf("%w: write published marker: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Published reports whether SetPublished has ever succeeded.
func (s *IdentityBoltStore) Published() (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(bucketIdentity).Get(publishedKey) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: read published marker: %v", domain.ErrPersistence, err)
	}
	return ok, nil
}

var _ domain.IdentityStore = (*IdentityBoltStore)(nil)
