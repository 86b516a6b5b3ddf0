// Package token describes the fixed definition of a fungible asset.
package token

import (
	"github.com/xraph/fungible/id"
	"github.com/xraph/fungible/types"
)

// Token is the immutable definition of the asset a ledger accounts for.
// It is written once, when a store is first initialized.
type Token struct {
	types.Entity
	ID            id.TokenID    `json:"id"`
	Name          string        `json:"name"`
	Symbol        string        `json:"symbol"`
	Decimals      uint8         `json:"decimals"`
	TotalSupply   types.Amount  `json:"total_supply"`
	InitialHolder types.Address `json:"initial_holder"`
}

// Matches reports whether two definitions describe the same asset.
// IDs and timestamps are ignored.
func (t *Token) Matches(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Name == other.Name &&
		t.Symbol == other.Symbol &&
		t.Decimals == other.Decimals &&
		t.TotalSupply.Equal(other.TotalSupply) &&
		t.InitialHolder == other.InitialHolder
}
