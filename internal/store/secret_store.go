package store

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"sotto/internal/domain"
)

// SecretBoltStore persists derived per-peer shared secrets, keyed by peer ID.
type SecretBoltStore struct {
	db *bolt.DB
}

// NewSecretBoltStore returns a secret store backed by db.
func NewSecretBoltStore(db *bolt.DB) *SecretBoltStore {
	return &SecretBoltStore{db: db}
}

// SaveSecret writes the entry keyed by its peer ID.
func (s *SecretBoltStore) SaveSecret(e domain.SharedSecretEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w: encode secret: %v", domain.ErrPersistence, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSecrets).Put([]byte(e.PeerID), raw)
	})
	if err != nil {
		return fmt.Errorf("%w: write secret for %s: %v", domain.ErrPersistence, e.PeerID, err)
	}
	return nil
}

// LoadSecret reads the entry for peer. ok=false means no entry exists.
func (s *SecretBoltStore) LoadSecret(peer domain.UserID) (domain.SharedSecretEntry, bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSecrets).Get([]byte(peer)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return domain.SharedSecretEntry{}, false, fmt.Errorf("%w: read secret for %s: %v", domain.ErrPersistence, peer, err)
	}
	if raw == nil {
		return domain.SharedSecretEntry{}, false, nil
	}
	var e domain.SharedSecretEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.SharedSecretEntry{}, false, fmt.Errorf("%w: decode secret for %s: %v", domain.ErrPersistence, peer, err)
	}
	return e, true, nil
}

// DeleteSecret removes the entry for peer. Deleting a missing entry is not
// an error.
func (s *SecretBoltStore) DeleteSecret(peer domain.UserID) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSecrets).Delete([]byte(peer))
	})
	if err != nil {
		return fmt.Errorf("%w: delete secret for %s: %v", domain.ErrPersistence, peer, err)
	}
	return nil
}

var _ domain.SecretStore = (*SecretBoltStore)(nil)
