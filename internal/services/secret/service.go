package secret

import (
	"time"

	"golang.org/x/sync/singleflight"

	"sotto/internal/crypto"
	"sotto/internal/domain"
)

// Service caches one symmetric key per peer, deriving it on first use.
type Service struct {
	store domain.SecretStore
	group singleflight.Group

	// derive is swappable in tests to count invocations.
	derive func(domain.PrivateKey, domain.PublicKey) (domain.SecretKey, error)
}

// New returns a secret service backed by the given store.
func New(store domain.SecretStore) *Service {
	return &Service{store: store, derive: crypto.DeriveSharedKey}
}

// GetOrDerive returns the cached secret for peer, deriving, persisting and
// returning a fresh one if absent. Malformed peer key material fails closed
// with domain.ErrKeyAgreement.
func (s *Service) GetOrDerive(peer domain.UserID, myPrivate domain.PrivateKey, peerPublic domain.PublicKey) (domain.SecretKey, error) {
	v, err, _ := s.group.Do(string(peer), func() (any, error) {
		e, ok, err := s.store.LoadSecret(peer)
		if err != nil {
			return nil, err
		}
		if ok {
			return e.Key, nil
		}
		key, err := s.derive(myPrivate, peerPublic)
		if err != nil {
			return nil, err
		}
		entry := domain.SharedSecretEntry{
			PeerID:     peer,
			Key:        key,
			CreatedUTC: time.Now().Unix(),
		}
		if err := s.store.SaveSecret(entry); err != nil {
			return nil, err
		}
		return key, nil
	})
	if err != nil {
		return domain.SecretKey{}, err
	}
	return v.(domain.SecretKey), nil
}

// GetCached is a pure lookup: no derivation, no side effects.
func (s *Service) GetCached(peer domain.UserID) (domain.SecretKey, bool, error) {
	e, ok, err := s.store.LoadSecret(peer)
	if err != nil || !ok {
		return domain.SecretKey{}, false, err
	}
	return e.Key, true, nil
}

var _ domain.SecretService = (*Service)(nil)
