// Package store provides the durable device-local state:
//
//   - a bbolt key-value database holding the sealed identity key pair and
//     the per-peer shared-secret cache
//   - a SQLite database holding plaintext messages, indexed by conversation
//     and creation time
//
// Storage failures are wrapped with domain.ErrPersistence so callers can
// classify them without inspecting driver errors.
package store
