package identity

import (
	"fmt"
	"sync"

	"sotto/internal/crypto"
	"sotto/internal/domain"
)

// Service manages identity key creation and access using a backing store.
//
// The mutex serializes EnsureKeyPair so concurrent first calls cannot
// generate two different pairs; the loser of the race observes the winner's
// persisted pair.
type Service struct {
	store      domain.IdentityStore
	passphrase string
	mu         sync.Mutex
}

// New returns an identity service backed by the given store. The passphrase
// seals the pair at rest.
func New(store domain.IdentityStore, passphrase string) *Service {
	return &Service{store: store, passphrase: passphrase}
}

// EnsureKeyPair returns the persisted key pair, generating and persisting a
// fresh one first if none exists. Idempotent: repeated calls return
// bit-identical material. The boolean reports whether the pair was just
// created.
//
// A generation failure wraps domain.ErrEncryptionUnavailable and a storage
// failure surfaces domain.ErrPersistence; in neither case does the service
// hand out an unpersisted pair.
func (s *Service) EnsureKeyPair() (domain.KeyPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kp, ok, err := s.store.LoadKeyPair(s.passphrase)
	if err != nil {
		return domain.KeyPair{}, false, err
	}
	if ok {
		return kp, false, nil
	}

	kp, err = crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, false, fmt.Errorf("%w: %v", domain.ErrEncryptionUnavailable, err)
	}
	if err := s.store.SaveKeyPair(s.passphrase, kp); err != nil {
		return domain.KeyPair{}, false, err
	}
	return kp, true, nil
}

// NeedsPublish reports whether the public half still has to reach the
// directory. Publication state is tracked independently of key creation:
// whoever generated the pair may have crashed or hit a directory outage
// before publishing, and the key pair itself is already persisted by then.
func (s *Service) NeedsPublish() (bool, error) {
	published, err := s.store.Published()
	if err != nil {
		return false, err
	}
	return !published, nil
}

// MarkPublished records a successful publication; NeedsPublish reports
// false from then on.
func (s *Service) MarkPublished() error {
	return s.store.SetPublished()
}

// Fingerprint returns a short fingerprint of the local public key.
func (s *Service) Fingerprint() (string, error) {
	kp, _, err := s.EnsureKeyPair()
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(kp.Public), nil
}

var _ domain.IdentityService = (*Service)(nil)
