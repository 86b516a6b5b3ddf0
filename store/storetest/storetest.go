// Package storetest provides a behavioural test suite every store.Store
// implementation must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/id"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/store"
	"github.com/xraph/fungible/token"
	"github.com/xraph/fungible/types"
)

// Factory returns a fresh, migrated store for one subtest.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("TokenNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetToken(context.Background())
		require.ErrorIs(t, err, fungible.ErrTokenNotFound)
		assert.True(t, fungible.IsNotFound(err))
	})

	t.Run("TokenRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		want := sampleToken()
		require.NoError(t, s.CreateToken(ctx, want))

		got, err := s.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, want.ID.String(), got.ID.String())
		assert.True(t, want.Matches(got))
		assert.Equal(t, "10000000000000000000000", got.TotalSupply.String())
	})

	t.Run("TokenIsWrittenOnce", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.CreateToken(ctx, sampleToken()))
		require.ErrorIs(t, s.CreateToken(ctx, sampleToken()), fungible.ErrDuplicateEntry)
	})

	t.Run("EmptyJournal", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		seq, err := s.LastSequence(ctx)
		require.NoError(t, err)
		assert.Zero(t, seq)

		entries, err := s.ListEntries(ctx, journal.ListOpts{})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("EntryRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		want := sampleEntry(1, journal.KindGenesis)
		want.Amount = types.MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")
		require.NoError(t, s.AppendEntry(ctx, want))

		entries, err := s.ListEntries(ctx, journal.ListOpts{})
		require.NoError(t, err)
		require.Len(t, entries, 1)

		got := entries[0]
		assert.Equal(t, want.ID.String(), got.ID.String())
		assert.Equal(t, want.Seq, got.Seq)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Caller, got.Caller)
		assert.Equal(t, want.Owner, got.Owner)
		assert.Equal(t, want.Spender, got.Spender)
		assert.Equal(t, want.To, got.To)
		assert.Equal(t, want.Amount.String(), got.Amount.String())
		assert.True(t, want.Timestamp.Equal(got.Timestamp), "timestamp %s != %s", got.Timestamp, want.Timestamp)
	})

	t.Run("ListInSequenceOrder", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.AppendEntry(ctx, sampleEntry(1, journal.KindGenesis)))
		for seq := uint64(2); seq <= 7; seq++ {
			require.NoError(t, s.AppendEntry(ctx, sampleEntry(seq, journal.KindTransfer)))
		}

		last, err := s.LastSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), last)

		all, err := s.ListEntries(ctx, journal.ListOpts{})
		require.NoError(t, err)
		require.Len(t, all, 7)
		for i, e := range all {
			assert.Equal(t, uint64(i+1), e.Seq)
		}

		page, err := s.ListEntries(ctx, journal.ListOpts{AfterSeq: 3, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, uint64(4), page[0].Seq)
		assert.Equal(t, uint64(5), page[1].Seq)

		tail, err := s.ListEntries(ctx, journal.ListOpts{AfterSeq: 7})
		require.NoError(t, err)
		assert.Empty(t, tail)
	})

	t.Run("DuplicateSequence", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.AppendEntry(ctx, sampleEntry(1, journal.KindGenesis)))
		require.NoError(t, s.AppendEntry(ctx, sampleEntry(2, journal.KindApprove)))

		err := s.AppendEntry(ctx, sampleEntry(2, journal.KindTransfer))
		require.ErrorIs(t, err, fungible.ErrDuplicateEntry)

		entries, err := s.ListEntries(ctx, journal.ListOpts{})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, journal.KindApprove, entries[1].Kind)
	})

	t.Run("MigrateIsIdempotent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.AppendEntry(ctx, sampleEntry(1, journal.KindGenesis)))
		require.NoError(t, s.Migrate(ctx))
		require.NoError(t, s.Ping(ctx))

		last, err := s.LastSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), last)
	})

	t.Run("LedgerRestart", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		tok := sampleToken()
		cfg := fungible.Config{
			Name:          tok.Name,
			Symbol:        tok.Symbol,
			Decimals:      tok.Decimals,
			TotalSupply:   tok.TotalSupply,
			InitialHolder: tok.InitialHolder,
		}

		l := fungible.New(s, cfg)
		require.NoError(t, l.Start(ctx))
		require.NoError(t, l.Transfer(ctx, tok.InitialHolder, address(9), types.NewAmount(25)))
		require.NoError(t, l.Approve(ctx, address(9), address(8), types.NewAmount(10)))
		require.NoError(t, l.TransferFrom(ctx, address(8), address(9), address(7), types.NewAmount(4)))

		replayed := fungible.New(s, cfg, fungible.WithoutMigrations())
		require.NoError(t, replayed.Start(ctx))
		assert.Equal(t, l.Holders(), replayed.Holders())
		assert.Equal(t, "6", replayed.Allowance(address(9), address(8)).String())
		assert.Equal(t, uint64(4), replayed.Sequence())
	})
}

func address(n byte) types.Address {
	var a types.Address
	a[19] = n
	return a
}

func sampleToken() *token.Token {
	return &token.Token{
		Entity:        types.NewEntity(),
		ID:            id.NewTokenID(),
		Name:          "AshishCoin",
		Symbol:        "ASC",
		Decimals:      18,
		TotalSupply:   types.MustParseAmount("10000000000000000000000"),
		InitialHolder: address(1),
	}
}

func sampleEntry(seq uint64, kind journal.Kind) *journal.Entry {
	return &journal.Entry{
		ID:        id.NewEntryID(),
		Seq:       seq,
		Kind:      kind,
		Caller:    address(1),
		Owner:     address(2),
		Spender:   address(3),
		To:        address(4),
		Amount:    types.NewAmount(seq * 10),
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}
}
