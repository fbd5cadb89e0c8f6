// Package bolt implements db.Store on a single bbolt bucket.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultBucket holds every key written by the engine.
const DefaultBucket = "prodex"

// Config holds bolt file settings.
type Config struct {
	Path        string
	Bucket      string
	OpenTimeout time.Duration
}

// Store is a bbolt-backed key-value store.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

// NewStore opens the bolt file, creating it and the bucket when missing.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Second
	}

	bdb, err := bbolt.Open(cfg.Path, 0o600, &bbolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	s := &Store{db: bdb, bucket: []byte(cfg.Bucket)}
	err = bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
	}
	return s, nil
}

// Get retrieves a value by key. The returned slice is a copy owned by the caller.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return db.ErrKeyNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return db.ErrKeyNotFound
		}
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, err
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores value at key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Ping verifies the file is still open by running an empty read transaction.
func (s *Store) Ping(_ context.Context) error {
	if err := s.db.View(func(*bbolt.Tx) error { return nil }); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the bolt file.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady pings once; the file lock was already acquired in NewStore.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}
