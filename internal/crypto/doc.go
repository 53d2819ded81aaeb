// Package crypto exposes the asymmetric primitives used by sotto.
//
// Contents
//
//   - P-384 identity key generation (GenerateKeyPair)
//   - ECDH key agreement plus HKDF key derivation (DeriveSharedKey)
//   - Passphrase sealing of records at rest (SealRecord, OpenRecord)
//   - Short public-key fingerprints for display (Fingerprint)
//
// Callers should treat returned secrets as sensitive and rely on
// memzero.Zero when practical to reduce lifetime in memory.
package crypto
