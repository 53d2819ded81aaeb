package cipher_test

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"

	"sotto/internal/cipher"
	"sotto/internal/domain"
)

func testKey(t *testing.T) domain.SecretKey {
	t.Helper()
	var k domain.SecretKey
	if _, err := rand.Read(k[:]); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return k
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)
	for _, plain := range [][]byte{
		[]byte("hello"),
		[]byte(""),
		bytes.Repeat([]byte{0xff}, 4096),
	} {
		blob, err := cipher.Encrypt(plain, key)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		got, err := cipher.Decrypt(blob, key)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, plain) {
			t.Fatalf("roundtrip mismatch for %d-byte plaintext", len(plain))
		}
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	key := testKey(t)
	a, err := cipher.Encrypt([]byte("same plaintext"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := cipher.Encrypt([]byte("same plaintext"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if a == b {
		t.Fatal("two encryptions of the same plaintext produced identical blobs")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	blob, err := cipher.Encrypt([]byte("for your eyes only"), testKey(t))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := cipher.Decrypt(blob, testKey(t)); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("want ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_TamperingFails(t *testing.T) {
	key := testKey(t)
	blob, err := cipher.Encrypt([]byte("integrity matters"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Flipping any single byte (nonce, ciphertext or tag) must fail
	// authentication; altered plaintext must never come back.
	for i := range raw {
		mutated := append([]byte(nil), raw...)
		mutated[i] ^= 0x01
		got, err := cipher.Decrypt(base64.StdEncoding.EncodeToString(mutated), key)
		if !errors.Is(err, domain.ErrDecryptionFailed) {
			t.Fatalf("byte %d: want ErrDecryptionFailed, got plaintext %q err %v", i, got, err)
		}
	}
}

func TestDecrypt_MalformedBlobFails(t *testing.T) {
	key := testKey(t)
	for _, blob := range []string{
		"",
		"%%% not base64 %%%",
		base64.StdEncoding.EncodeToString([]byte("short")),
	} {
		if _, err := cipher.Decrypt(blob, key); !errors.Is(err, domain.ErrDecryptionFailed) {
			t.Fatalf("blob %q: want ErrDecryptionFailed, got %v", blob, err)
		}
	}
}
