package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/aastu-its/interntrack/core"
)

var storesBucket = []byte("stores")

type boltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the bolt file at path. Every document is a key of the "stores" bucket.
func OpenBolt(path string) (core.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating data directory")
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(storesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		// values are only valid for the life of the transaction
		doc = clone(tx.Bucket(storesBucket).Get([]byte(key)))
		return nil
	})
	return doc, err
}

// Update runs in a read-write transaction. bolt allows one at a time.
func (s *boltStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(storesBucket)
		next, err := fn(clone(b.Get([]byte(key))))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), next)
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
