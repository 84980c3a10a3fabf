package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/diewo77/go-pos/internal/errs"
	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("mypos")

// BoltStore keeps all collections in a single bucket of one bbolt file.
// This is the on-device backend: one file per installation, no server.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the store file. The open blocks at most one
// second waiting for a file lock held by another process.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, &errs.StorageError{Op: "open", Key: path, Err: err}
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, &errs.StorageError{Op: "open", Key: path, Err: err}
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, &errs.StorageError{Op: "get", Key: key, Err: err}
	}
	var out json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(key))
		if v != nil {
			out = append(json.RawMessage(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, &errs.StorageError{Op: "get", Key: key, Err: err}
	}
	return out, out != nil, nil
}

func (s *BoltStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return &errs.StorageError{Op: "set", Key: key, Err: err}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), value)
	})
	if err != nil {
		return &errs.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

// WithTx stages all writes in one bbolt update transaction.
func (s *BoltStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return &errs.StorageError{Op: "tx", Key: "", Err: err}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTxStore{bucket: tx.Bucket(boltBucket)})
	})
}

type boltTxStore struct {
	bucket *bolt.Bucket
}

func (s *boltTxStore) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	v := s.bucket.Get([]byte(key))
	if v == nil {
		return nil, false, nil
	}
	return append(json.RawMessage(nil), v...), true, nil
}

func (s *boltTxStore) Set(_ context.Context, key string, value json.RawMessage) error {
	if err := s.bucket.Put([]byte(key), value); err != nil {
		return &errs.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *boltTxStore) Close() error { return errors.New("close inside transaction") }
