package mongo

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/xraph/grove"

	"github.com/xraph/fungible/id"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/token"
	"github.com/xraph/fungible/types"
)

// tokenDocID is the fixed _id of the single token document.
const tokenDocID = "token"

// ==================== Token models ====================

type tokenModel struct {
	grove.BaseModel `grove:"table:fungible_token"`

	Key           string    `grove:"key,pk"         bson:"_id"`
	ID            string    `grove:"id"             bson:"id"`
	Name          string    `grove:"name"           bson:"name"`
	Symbol        string    `grove:"symbol"         bson:"symbol"`
	Decimals      int       `grove:"decimals"       bson:"decimals"`
	TotalSupply   string    `grove:"total_supply"   bson:"total_supply"`
	InitialHolder string    `grove:"initial_holder" bson:"initial_holder"`
	CreatedAt     time.Time `grove:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"     bson:"updated_at"`
}

func toTokenModel(t *token.Token) *tokenModel {
	return &tokenModel{
		Key:           tokenDocID,
		ID:            t.ID.String(),
		Name:          t.Name,
		Symbol:        t.Symbol,
		Decimals:      int(t.Decimals),
		TotalSupply:   t.TotalSupply.String(),
		InitialHolder: t.InitialHolder.Hex(),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func fromTokenModel(m *tokenModel) (*token.Token, error) {
	var tokenID id.TokenID
	if m.ID != "" {
		parsed, err := id.ParseTokenID(m.ID)
		if err != nil {
			return nil, err
		}
		tokenID = parsed
	}
	supply, err := types.ParseAmount(m.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("token total_supply: %w", err)
	}

	return &token.Token{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:            tokenID,
		Name:          m.Name,
		Symbol:        m.Symbol,
		Decimals:      uint8(m.Decimals), //nolint:gosec // written from a uint8
		TotalSupply:   supply,
		InitialHolder: common.HexToAddress(m.InitialHolder),
	}, nil
}

// ==================== Journal models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:fungible_journal"`

	Seq        int64     `grove:"seq,pk"      bson:"_id"`
	ID         string    `grove:"id"          bson:"id,omitempty"`
	Kind       string    `grove:"kind"        bson:"kind"`
	Caller     string    `grove:"caller"      bson:"caller"`
	Owner      string    `grove:"owner"       bson:"owner,omitempty"`
	Spender    string    `grove:"spender"     bson:"spender,omitempty"`
	Recipient  string    `grove:"recipient"   bson:"recipient,omitempty"`
	Amount     string    `grove:"amount"      bson:"amount"`
	RecordedAt time.Time `grove:"recorded_at" bson:"recorded_at"`
}

func toEntryModel(e *journal.Entry) *entryModel {
	return &entryModel{
		Seq:        int64(e.Seq), //nolint:gosec // sequence numbers stay far below 2^63
		ID:         e.ID.String(),
		Kind:       string(e.Kind),
		Caller:     e.Caller.Hex(),
		Owner:      e.Owner.Hex(),
		Spender:    e.Spender.Hex(),
		Recipient:  e.To.Hex(),
		Amount:     e.Amount.String(),
		RecordedAt: e.Timestamp,
	}
}

func fromEntryModel(m *entryModel) (*journal.Entry, error) {
	var entryID id.EntryID
	if m.ID != "" {
		parsed, err := id.ParseEntryID(m.ID)
		if err != nil {
			return nil, err
		}
		entryID = parsed
	}
	amount, err := types.ParseAmount(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("entry %d amount: %w", m.Seq, err)
	}

	return &journal.Entry{
		ID:        entryID,
		Seq:       uint64(m.Seq), //nolint:gosec // _id is never negative
		Kind:      journal.Kind(m.Kind),
		Caller:    common.HexToAddress(m.Caller),
		Owner:     common.HexToAddress(m.Owner),
		Spender:   common.HexToAddress(m.Spender),
		To:        common.HexToAddress(m.Recipient),
		Amount:    amount,
		Timestamp: m.RecordedAt.UTC(),
	}, nil
}
