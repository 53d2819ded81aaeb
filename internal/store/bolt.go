package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"sotto/internal/domain"
)

var (
	bucketIdentity = []byte("identity")
	bucketSecrets  = []byte("shared_secrets")
)

// Open opens (or creates) the key-value database at path and ensures all
// buckets exist.
//
// bbolt takes an exclusive file lock, so a second process opening the same
// database fails fast after the timeout instead of corrupting state.
func Open(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrPersistence, path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketIdentity, bucketSecrets} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init buckets: %v", domain.ErrPersistence, err)
	}
	return db, nil
}
