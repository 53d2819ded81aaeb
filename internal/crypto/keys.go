package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"sotto/internal/domain"
	"sotto/internal/util/memzero"
)

// hkdfInfo binds derived keys to their purpose so the same agreement can
// never silently feed a different protocol.
var hkdfInfo = []byte("sotto/v1 message key")

func curve() ecdh.Curve { return ecdh.P384() }

// GenerateKeyPair returns a fresh P-384 identity key pair.
func GenerateKeyPair() (domain.KeyPair, error) {
	priv, err := curve().GenerateKey(rand.Reader)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{
		Public:  priv.PublicKey().Bytes(),
		Private: priv.Bytes(),
	}, nil
}

// DeriveSharedKey performs ECDH between myPrivate and peerPublic and derives
// a 256-bit symmetric key via HKDF-SHA256.
//
// Malformed or off-curve key material fails closed with
// domain.ErrKeyAgreement; there is no plaintext fallback.
func DeriveSharedKey(myPrivate domain.PrivateKey, peerPublic domain.PublicKey) (domain.SecretKey, error) {
	var key domain.SecretKey

	priv, err := curve().NewPrivateKey(myPrivate)
	if err != nil {
		return key, fmt.Errorf("%w: local private key: %v", domain.ErrKeyAgreement, err)
	}
	pub, err := curve().NewPublicKey(peerPublic)
	if err != nil {
		return key, fmt.Errorf("%w: peer public key: %v", domain.ErrKeyAgreement, err)
	}
	shared, err := priv.ECDH(pub)
	if err != nil {
		return key, fmt.Errorf("%w: %v", domain.ErrKeyAgreement, err)
	}
	defer memzero.Zero(shared)

	r := hkdf.New(sha256.New, shared, nil, hkdfInfo)
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return domain.SecretKey{}, fmt.Errorf("%w: hkdf: %v", domain.ErrKeyAgreement, err)
	}
	return key, nil
}
