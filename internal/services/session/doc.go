// Package session orchestrates one encrypted conversation with one peer.
//
// A session walks a small state machine:
//
//	Uninitialized -> KeysReady -> SecretReady -> Active
//
// EnsureKeys moves to KeysReady (generating and publishing the identity key
// on first use). SetupSharedKey moves to Active, skipping SecretReady when a
// cached shared secret already exists. While the peer has not published a
// public key the session stays in KeysReady and sending is disabled; this is
// a user-facing condition, not an error. There is no transition back to
// Uninitialized short of a process restart.
package session
