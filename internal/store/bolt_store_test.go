package store_test

import (
	"bytes"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"sotto/internal/domain"
	"sotto/internal/store"
)

func openKV(t *testing.T) *bolt.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "keys.db"))
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestIdentityStore_SaveLoad(t *testing.T) {
	s := store.NewIdentityBoltStore(openKV(t))

	kp := domain.KeyPair{
		Public:  []byte{1, 2, 3},
		Private: []byte{4, 5, 6},
	}
	if err := s.SaveKeyPair("pass", kp); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.LoadKeyPair("pass")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("key pair missing after save")
	}
	if !bytes.Equal(got.Public, kp.Public) || !bytes.Equal(got.Private, kp.Private) {
		t.Fatal("key pair mismatch after load")
	}
}

func TestIdentityStore_AbsentIsNotAnError(t *testing.T) {
	s := store.NewIdentityBoltStore(openKV(t))
	_, ok, err := s.LoadKeyPair("pass")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("found a key pair in an empty store")
	}
}

func TestIdentityStore_WrongPassphraseFails(t *testing.T) {
	s := store.NewIdentityBoltStore(openKV(t))
	if err := s.SaveKeyPair("right", domain.KeyPair{Public: []byte{1}, Private: []byte{2}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, _, err := s.LoadKeyPair("wrong"); err == nil {
		t.Fatal("wrong passphrase unsealed the key pair")
	}
}

func TestIdentityStore_PublishedMarkerPersists(t *testing.T) {
	s := store.NewIdentityBoltStore(openKV(t))

	ok, err := s.Published()
	if err != nil {
		t.Fatalf("published: %v", err)
	}
	if ok {
		t.Fatal("empty store reports published")
	}

	if err := s.SetPublished(); err != nil {
		t.Fatalf("set published: %v", err)
	}
	ok, err = s.Published()
	if err != nil {
		t.Fatalf("published: %v", err)
	}
	if !ok {
		t.Fatal("marker lost after SetPublished")
	}
}

func TestSecretStore_SaveLoadDelete(t *testing.T) {
	s := store.NewSecretBoltStore(openKV(t))

	entry := domain.SharedSecretEntry{
		PeerID:     "bob",
		Key:        domain.SecretKey{7, 7, 7},
		CreatedUTC: 1234,
	}
	if err := s.SaveSecret(entry); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.LoadSecret("bob")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok || got.Key != entry.Key || got.CreatedUTC != entry.CreatedUTC {
		t.Fatalf("entry mismatch: ok=%v got=%+v", ok, got)
	}

	if _, ok, err := s.LoadSecret("carol"); err != nil || ok {
		t.Fatalf("unknown peer: ok=%v err=%v", ok, err)
	}

	if err := s.DeleteSecret("bob"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.LoadSecret("bob"); ok {
		t.Fatal("entry survived delete")
	}
}
