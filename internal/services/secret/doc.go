// Package secret derives and caches per-peer shared secrets. Key agreement
// is expensive, so derivation runs at most once per peer per device: a
// cached entry always wins, and concurrent derivations for the same peer are
// collapsed through singleflight so the second caller observes the first
// caller's persisted result.
package secret
