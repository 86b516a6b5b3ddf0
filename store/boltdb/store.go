// Package boltdb implements the Store interface on an embedded BoltDB file.
// It suits single-process deployments that need durability without a
// database server.
//
// Layout:
//
//	token    bucket  "token" -> JSON token definition
//	journal  bucket  8-byte big-endian seq -> JSON entry
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/boltdb/bolt"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/store"
	"github.com/xraph/fungible/token"
)

const (
	tokenBucket   = "token"
	journalBucket = "journal"
	tokenKey      = "token"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store implements store.Store using BoltDB.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database file at path. Migrate must
// run before the store is used.
func Open(path string, mode os.FileMode) (*Store, error) {
	db, err := bolt.Open(path, mode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("fungible/boltdb: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// New wraps an already open database.
func New(db *bolt.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying BoltDB handle.
func (s *Store) DB() *bolt.DB { return s.db }

// Migrate creates the buckets.
func (s *Store) Migrate(_ context.Context) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{tokenBucket, journalBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("fungible/boltdb: migrate: %w", mapError(err))
	}
	return nil
}

// Ping verifies the database is open and readable.
func (s *Store) Ping(_ context.Context) error {
	return mapError(s.db.View(func(*bolt.Tx) error { return nil }))
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Token Store ====================

func (s *Store) CreateToken(_ context.Context, t *token.Token) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("fungible/boltdb: encode token: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tokenBucket))
		if b == nil {
			return fungible.ErrStoreNotReady
		}
		if b.Get([]byte(tokenKey)) != nil {
			return fungible.ErrDuplicateEntry
		}
		return b.Put([]byte(tokenKey), data)
	})
	if err != nil {
		return fmt.Errorf("fungible/boltdb: create token: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetToken(_ context.Context) (*token.Token, error) {
	var t token.Token
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tokenBucket))
		if b == nil {
			return fungible.ErrStoreNotReady
		}
		data := b.Get([]byte(tokenKey))
		if data == nil {
			return fungible.ErrTokenNotFound
		}
		return json.Unmarshal(data, &t)
	})
	if err != nil {
		return nil, fmt.Errorf("fungible/boltdb: get token: %w", mapError(err))
	}
	return &t, nil
}

// ==================== Journal Store ====================

func (s *Store) AppendEntry(_ context.Context, e *journal.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("fungible/boltdb: encode entry %d: %w", e.Seq, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(journalBucket))
		if b == nil {
			return fungible.ErrStoreNotReady
		}
		key := seqKey(e.Seq)
		if b.Get(key) != nil {
			return fungible.ErrDuplicateEntry
		}
		return b.Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("fungible/boltdb: append entry %d: %w", e.Seq, mapError(err))
	}
	return nil
}

func (s *Store) ListEntries(_ context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	result := make([]*journal.Entry, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(journalBucket))
		if b == nil {
			return fungible.ErrStoreNotReady
		}

		c := b.Cursor()
		for k, v := c.Seek(seqKey(opts.AfterSeq + 1)); k != nil; k, v = c.Next() {
			var e journal.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			result = append(result, &e)
			if opts.Limit > 0 && len(result) == opts.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fungible/boltdb: list entries: %w", mapError(err))
	}
	return result, nil
}

func (s *Store) LastSequence(_ context.Context) (uint64, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(journalBucket))
		if b == nil {
			return fungible.ErrStoreNotReady
		}
		if k, _ := b.Cursor().Last(); k != nil {
			seq = binary.BigEndian.Uint64(k)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("fungible/boltdb: last sequence: %w", mapError(err))
	}
	return seq, nil
}

// seqKey encodes a sequence number so byte order matches numeric order.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// mapError translates BoltDB lifecycle errors into fungible sentinels.
func mapError(err error) error {
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("%w: %w", fungible.ErrStoreClosed, err)
	}
	return err
}
