package secret

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sotto/internal/domain"
)

// memSecretStore is an in-memory domain.SecretStore.
type memSecretStore struct {
	mu      sync.Mutex
	entries map[domain.UserID]domain.SharedSecretEntry
}

func newMemSecretStore() *memSecretStore {
	return &memSecretStore{entries: make(map[domain.UserID]domain.SharedSecretEntry)}
}

func (s *memSecretStore) SaveSecret(e domain.SharedSecretEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.PeerID] = e
	return nil
}

func (s *memSecretStore) LoadSecret(peer domain.UserID) (domain.SharedSecretEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[peer]
	return e, ok, nil
}

func (s *memSecretStore) DeleteSecret(peer domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, peer)
	return nil
}

func countingService(store domain.SecretStore, calls *atomic.Int64, delay time.Duration) *Service {
	svc := New(store)
	svc.derive = func(domain.PrivateKey, domain.PublicKey) (domain.SecretKey, error) {
		calls.Add(1)
		time.Sleep(delay)
		return domain.SecretKey{9, 9, 9}, nil
	}
	return svc
}

func TestGetOrDerive_DerivesAtMostOnce(t *testing.T) {
	var calls atomic.Int64
	svc := countingService(newMemSecretStore(), &calls, 0)

	first, err := svc.GetOrDerive("bob", []byte("priv"), []byte("pub"))
	if err != nil {
		t.Fatalf("first derive: %v", err)
	}
	second, err := svc.GetOrDerive("bob", []byte("priv"), []byte("pub"))
	if err != nil {
		t.Fatalf("second derive: %v", err)
	}
	if first != second {
		t.Fatal("cached key differs from derived key")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("derivation ran %d times, want 1", got)
	}
}

func TestGetOrDerive_ConcurrentCallsCollapse(t *testing.T) {
	var calls atomic.Int64
	svc := countingService(newMemSecretStore(), &calls, 20*time.Millisecond)

	var wg sync.WaitGroup
	keys := make([]domain.SecretKey, 8)
	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := svc.GetOrDerive("bob", []byte("priv"), []byte("pub"))
			if err != nil {
				t.Errorf("derive: %v", err)
				return
			}
			keys[i] = key
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[0] {
			t.Fatal("concurrent callers observed divergent keys")
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("derivation ran %d times under contention, want 1", got)
	}
}

func TestGetCached_NoDerivation(t *testing.T) {
	var calls atomic.Int64
	svc := countingService(newMemSecretStore(), &calls, 0)

	if _, ok, err := svc.GetCached("bob"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if _, err := svc.GetOrDerive("bob", []byte("priv"), []byte("pub")); err != nil {
		t.Fatalf("derive: %v", err)
	}
	key, ok, err := svc.GetCached("bob")
	if err != nil || !ok {
		t.Fatalf("cached lookup: ok=%v err=%v", ok, err)
	}
	if key == (domain.SecretKey{}) {
		t.Fatal("cached key is zero")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("GetCached triggered derivation: %d calls", got)
	}
}

func TestGetOrDerive_PropagatesKeyAgreementError(t *testing.T) {
	svc := New(newMemSecretStore())
	svc.derive = func(domain.PrivateKey, domain.PublicKey) (domain.SecretKey, error) {
		return domain.SecretKey{}, domain.ErrKeyAgreement
	}
	if _, err := svc.GetOrDerive("bob", nil, nil); !errors.Is(err, domain.ErrKeyAgreement) {
		t.Fatalf("want ErrKeyAgreement, got %v", err)
	}
	// Nothing may be cached after a failed derivation.
	if _, ok, _ := svc.GetCached("bob"); ok {
		t.Fatal("failed derivation left a cache entry")
	}
}
