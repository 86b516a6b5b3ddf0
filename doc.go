// Package fungible provides an embeddable fungible-token ledger for Go
// applications.
//
// A Ledger accounts for a single asset with a fixed total supply, per-holder
// balances and delegated spending through allowances, following the ERC-20
// state machine. It is a library, not a service: the caller authenticates
// identities and hands the ledger a trusted caller address on every
// mutation.
//
//   - Transfer, Approve and TransferFrom with checked 256-bit arithmetic
//   - Serialized writes with an append-only journal and replay on start
//   - Pluggable stores: memory, bolt, PostgreSQL, SQLite and MongoDB
//   - Plugin hooks for Transfer and Approval events, audit and metrics
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/fungible"
//	    "github.com/xraph/fungible/store/memory"
//	)
//
//	supply, _ := fungible.Units(10000, 18)
//	l := fungible.New(memory.New(), fungible.Config{
//	    Name:          "AshishCoin",
//	    Symbol:        "ASC",
//	    Decimals:      18,
//	    TotalSupply:   supply,
//	    InitialHolder: owner,
//	})
//
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	err := l.Transfer(ctx, owner, alice, fungible.NewAmount(1))
//
// # Errors
//
// Failed mutations leave every balance and allowance untouched. Callers can
// tell the two domain failures apart:
//
//	switch {
//	case errors.Is(err, fungible.ErrInsufficientAllowance):
//	    // ask the owner to approve more
//	case errors.Is(err, fungible.ErrInsufficientBalance):
//	    // the owner does not hold the funds
//	}
//
// TransferFrom checks the allowance before the balance.
//
// # Journal
//
// Every committed operation is one journal entry with a gapless sequence
// number. On Start a ledger replays the journal of an existing store and
// refuses to run against a store initialized for a different token.
package fungible
