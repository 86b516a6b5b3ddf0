// Package memory provides an in-process Store. State lives only as long as
// the Store value, which makes it the default for tests and ephemeral
// ledgers.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/store"
	"github.com/xraph/fungible/token"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Token definition, nil until the first CreateToken
	token *token.Token

	// Journal entries in ascending Seq order
	entries []journal.Entry
}

func New() *Store {
	return &Store{
		entries: make([]journal.Entry, 0),
	}
}

// Token Store implementation
func (s *Store) CreateToken(_ context.Context, t *token.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		return fungible.ErrDuplicateEntry
	}
	cp := *t
	s.token = &cp
	return nil
}

func (s *Store) GetToken(_ context.Context) (*token.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return nil, fungible.ErrTokenNotFound
	}
	cp := *s.token
	return &cp, nil
}

// Journal Store implementation

// AppendEntry rejects any entry whose Seq is not above the last stored one,
// which covers both a reused sequence number and a stale writer.
func (s *Store) AppendEntry(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.entries); n > 0 && e.Seq <= s.entries[n-1].Seq {
		return fungible.ErrDuplicateEntry
	}
	s.entries = append(s.entries, *e)
	return nil
}

func (s *Store) ListEntries(_ context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*journal.Entry, 0)
	for i := range s.entries {
		if s.entries[i].Seq <= opts.AfterSeq {
			continue
		}
		cp := s.entries[i]
		result = append(result, &cp)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) LastSequence(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return 0, nil
	}
	return s.entries[len(s.entries)-1].Seq, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

// Close keeps the data so a Store can be handed to a new Ledger after the
// previous one stopped.
func (s *Store) Close() error {
	return nil
}
