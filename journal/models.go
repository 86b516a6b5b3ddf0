// Package journal defines the append-only log of ledger operations.
//
// Every successful mutation is recorded as one Entry with a strictly
// increasing sequence number. Replaying the entries in order from the
// genesis entry reproduces the balance and allowance tables exactly.
package journal

import (
	"fmt"
	"time"

	"github.com/xraph/fungible/id"
	"github.com/xraph/fungible/types"
)

// Kind identifies the operation an entry records.
type Kind string

const (
	// KindGenesis credits the initial holder with the total supply. Always seq 1.
	KindGenesis Kind = "genesis"
	// KindTransfer moves Amount from Caller to To.
	KindTransfer Kind = "transfer"
	// KindApprove sets the (Caller, Spender) allowance to Amount.
	KindApprove Kind = "approve"
	// KindTransferFrom moves Amount from Owner to To, spending Caller's allowance.
	KindTransferFrom Kind = "transfer_from"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindGenesis, KindTransfer, KindApprove, KindTransferFrom:
		return true
	default:
		return false
	}
}

// Entry is a single committed ledger operation.
type Entry struct {
	ID        id.EntryID    `json:"id"`
	Seq       uint64        `json:"seq"`
	Kind      Kind          `json:"kind"`
	Caller    types.Address `json:"caller"`
	Owner     types.Address `json:"owner,omitempty"`
	Spender   types.Address `json:"spender,omitempty"`
	To        types.Address `json:"to,omitempty"`
	Amount    types.Amount  `json:"amount"`
	Timestamp time.Time     `json:"timestamp"`
}

// Validate checks the structural fields of an entry.
func (e *Entry) Validate() error {
	if e.Seq == 0 {
		return fmt.Errorf("journal: entry %s has no sequence number", e.ID)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("journal: entry %d has unknown kind %q", e.Seq, e.Kind)
	}
	if e.Kind == KindGenesis && e.Seq != 1 {
		return fmt.Errorf("journal: genesis entry at seq %d", e.Seq)
	}
	return nil
}
