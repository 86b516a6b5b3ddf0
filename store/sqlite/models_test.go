package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/id"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/types"
)

func TestEntryModelRoundTrip(t *testing.T) {
	e := &journal.Entry{
		ID:        id.NewEntryID(),
		Seq:       3,
		Kind:      journal.KindApprove,
		Caller:    types.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Spender:   types.MustParseAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
		Amount:    types.NewAmount(10),
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}

	got, err := fromEntryModel(toEntryModel(e))
	require.NoError(t, err)
	assert.Equal(t, e.Seq, got.Seq)
	assert.Equal(t, e.Kind, got.Kind)
	assert.Equal(t, e.Caller, got.Caller)
	assert.Equal(t, e.Spender, got.Spender)
	assert.Equal(t, "10", got.Amount.String())
}

func TestEntryModelWithoutID(t *testing.T) {
	m := toEntryModel(&journal.Entry{Seq: 1, Kind: journal.KindGenesis})
	assert.Empty(t, m.ID)

	got, err := fromEntryModel(m)
	require.NoError(t, err)
	assert.True(t, got.ID.IsNil())
}

func TestMapError(t *testing.T) {
	dup := errors.New("constraint failed: UNIQUE constraint failed: fungible_journal.seq (1555)")
	require.ErrorIs(t, mapError(dup), fungible.ErrDuplicateEntry)

	other := errors.New("database is locked")
	assert.Equal(t, other, mapError(other))
	assert.NoError(t, mapError(nil))
}
