package fungible

import "github.com/xraph/fungible/types"

// Re-export common types for convenience so users don't have to import types package.

// Address is re-exported from types package.
type Address = types.Address

// Amount is re-exported from types package.
type Amount = types.Amount

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Amount and Address constructors
var (
	NewAmount        = types.NewAmount
	ZeroAmount       = types.ZeroAmount
	ParseAmount      = types.ParseAmount
	MustParseAmount  = types.MustParseAmount
	Units            = types.Units
	ParseAddress     = types.ParseAddress
	MustParseAddress = types.MustParseAddress
)

// ZeroAddress is the all-zero account identity.
var ZeroAddress = types.ZeroAddress
