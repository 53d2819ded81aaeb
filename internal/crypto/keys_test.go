package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"sotto/internal/crypto"
	"sotto/internal/domain"
)

func TestDeriveSharedKey_BothDirectionsAgree(t *testing.T) {
	alice, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	bob, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	ab, err := crypto.DeriveSharedKey(alice.Private, bob.Public)
	if err != nil {
		t.Fatalf("derive alice->bob: %v", err)
	}
	ba, err := crypto.DeriveSharedKey(bob.Private, alice.Public)
	if err != nil {
		t.Fatalf("derive bob->alice: %v", err)
	}
	if ab != ba {
		t.Fatal("shared keys differ across directions")
	}
	if ab == (domain.SecretKey{}) {
		t.Fatal("derived key is all zeroes")
	}
}

func TestGenerateKeyPair_PairsAreUnique(t *testing.T) {
	a, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	b, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if bytes.Equal(a.Public, b.Public) {
		t.Fatal("two generated pairs share a public key")
	}
}

func TestDeriveSharedKey_MalformedPeerKeyFailsClosed(t *testing.T) {
	alice, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	for _, bad := range []domain.PublicKey{
		nil,
		[]byte("not a point"),
		alice.Public[:10], // truncated
	} {
		if _, err := crypto.DeriveSharedKey(alice.Private, bad); !errors.Is(err, domain.ErrKeyAgreement) {
			t.Fatalf("peer key %v: want ErrKeyAgreement, got %v", bad, err)
		}
	}
}

func TestSealRecord_RoundTrip(t *testing.T) {
	plain := []byte("the identity record")
	blob, err := crypto.SealRecord("correct horse", plain)
	if err != nil {
		t.Fatalf("SealRecord: %v", err)
	}
	got, err := crypto.OpenRecord("correct horse", blob)
	if err != nil {
		t.Fatalf("OpenRecord: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("roundtrip mismatch: got %q", got)
	}
}

func TestOpenRecord_WrongPassphraseFails(t *testing.T) {
	blob, err := crypto.SealRecord("right", []byte("secret"))
	if err != nil {
		t.Fatalf("SealRecord: %v", err)
	}
	if _, err := crypto.OpenRecord("wrong", blob); err == nil {
		t.Fatal("wrong passphrase opened the record")
	}
}
