// Package identity owns the long-lived identity key-pair lifecycle: the pair
// is generated on first use, persisted once, and returned unchanged on every
// later call. There is no rotation; the pair lives until its database is
// deleted.
package identity
