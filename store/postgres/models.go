package postgres

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

// tokenSlot is the fixed primary key of the single token row.
const tokenSlot = 1

// ==================== Token models ====================

type tokenModel struct {
	grove.BaseModel `grove:"table:fungible_token"`

	Slot          int       `grove:"slot,pk"`
	ID            string    `grove:"id"`
	Name          string    `grove:"name"`
	Symbol        string    `grove:"symbol"`
	Decimals      int       `grove:"decimals"`
	TotalSupply   string    `grove:"total_supply"`
	InitialHolder string    `grove:"initial_holder"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toTokenModel(t *token.Token) *tokenModel {
	return &tokenModel{
		Slot:          tokenSlot,
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
	tokenID, err := parseOptionalID(m.ID, id.ParseTokenID)
	if err != nil {
		return nil, err
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
		Decimals:      uint8(m.Decimals), //nolint:gosec // column is range-checked on insert
		TotalSupply:   supply,
		InitialHolder: common.HexToAddress(m.InitialHolder),
	}, nil
}

// ==================== Journal models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:fungible_journal"`

	Seq        int64     `grove:"seq,pk"`
	ID         string    `grove:"id"`
	Kind       string    `grove:"kind"`
	Caller     string    `grove:"caller"`
	Owner      string    `grove:"owner"`
	Spender    string    `grove:"spender"`
	Recipient  string    `grove:"recipient"`
	Amount     string    `grove:"amount"`
	RecordedAt time.Time `grove:"recorded_at"`
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
	entryID, err := parseOptionalID(m.ID, id.ParseEntryID)
	if err != nil {
		return nil, err
	}
	amount, err := types.ParseAmount(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("entry %d amount: %w", m.Seq, err)
	}

	return &journal.Entry{
		ID:        entryID,
		Seq:       uint64(m.Seq), //nolint:gosec // primary key is never negative
		Kind:      journal.Kind(m.Kind),
		Caller:    common.HexToAddress(m.Caller),
		Owner:     common.HexToAddress(m.Owner),
		Spender:   common.HexToAddress(m.Spender),
		To:        common.HexToAddress(m.Recipient),
		Amount:    amount,
		Timestamp: m.RecordedAt.UTC(),
	}, nil
}

func parseOptionalID(s string, parse func(string) (id.ID, error)) (id.ID, error) {
	if s == "" {
		return id.ID{}, nil
	}
	return parse(s)
}
