package boltdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/store"
	"github.com/xraph/fungible/store/boltdb"
	"github.com/xraph/fungible/store/storetest"
	"github.com/xraph/fungible/types"
)

func open(t *testing.T, path string) *boltdb.Store {
	t.Helper()
	s, err := boltdb.Open(path, 0o600)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s := open(t, filepath.Join(t.TempDir(), "ledger.db"))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	holder := types.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice := types.MustParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	supply, err := types.Units(10000, 18)
	require.NoError(t, err)
	cfg := fungible.Config{Name: "AshishCoin", Symbol: "ASC", Decimals: 18, TotalSupply: supply, InitialHolder: holder}

	l := fungible.New(open(t, path), cfg)
	require.NoError(t, l.Start(ctx))
	require.NoError(t, l.Transfer(ctx, holder, alice, types.NewAmount(1)))
	require.NoError(t, l.Stop())

	reopened := open(t, path)
	defer reopened.Close()
	l = fungible.New(reopened, cfg)
	require.NoError(t, l.Start(ctx))
	assert.Equal(t, "1", l.BalanceOf(alice).String())
	assert.Equal(t, uint64(2), l.Sequence())
}

func TestClosedStore(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, s.Close())

	err := s.Ping(context.Background())
	require.ErrorIs(t, err, fungible.ErrStoreClosed)
}

func TestNotMigrated(t *testing.T) {
	s, err := boltdb.Open(filepath.Join(t.TempDir(), "ledger.db"), 0o600)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.GetToken(context.Background())
	require.ErrorIs(t, err, fungible.ErrStoreNotReady)
}
