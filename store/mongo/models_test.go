package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fungible/id"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/token"
	"github.com/xraph/fungible/types"
)

func TestEntryModelRoundTrip(t *testing.T) {
	e := &journal.Entry{
		ID:        id.NewEntryID(),
		Seq:       7,
		Kind:      journal.KindTransfer,
		Caller:    types.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		To:        types.MustParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		Amount:    types.MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935"),
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}

	m := toEntryModel(e)
	assert.Equal(t, int64(7), m.Seq)

	got, err := fromEntryModel(m)
	require.NoError(t, err)
	assert.Equal(t, e.ID.String(), got.ID.String())
	assert.Equal(t, e.Caller, got.Caller)
	assert.Equal(t, e.To, got.To)
	assert.True(t, e.Amount.Equal(got.Amount))
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
}

func TestTokenModelUsesFixedKey(t *testing.T) {
	tok := &token.Token{
		ID:            id.NewTokenID(),
		Name:          "AshishCoin",
		Symbol:        "ASC",
		Decimals:      18,
		TotalSupply:   types.NewAmount(1),
		InitialHolder: types.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
	}

	m := toTokenModel(tok)
	assert.Equal(t, tokenDocID, m.Key)

	got, err := fromTokenModel(m)
	require.NoError(t, err)
	assert.True(t, tok.Matches(got))
}

func TestMigrationIndexes(t *testing.T) {
	indexes := migrationIndexes()
	assert.Len(t, indexes[colToken], 1)
	assert.Len(t, indexes[colJournal], 3)
}
