package store

import (
	"context"

	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/token"
)

// Store is the unified storage interface for a token ledger.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Token methods
	CreateToken(ctx context.Context, t *token.Token) error
	GetToken(ctx context.Context) (*token.Token, error)

	// Journal methods
	AppendEntry(ctx context.Context, e *journal.Entry) error
	ListEntries(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error)
	LastSequence(ctx context.Context) (uint64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ token.Store   = (Store)(nil)
	_ journal.Store = (Store)(nil)
)
