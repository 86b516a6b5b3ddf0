// Package plugin provides an extensible plugin system for the token ledger.
// Plugins hook into lifecycle and transfer events without being able to
// change the outcome of an operation.
package plugin

import (
	"context"

	"github.com/xraph/fungible/event"
	"github.com/xraph/fungible/journal"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called once the ledger has loaded or initialized its state.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l any) error
}

// OnShutdown is called when the ledger is stopping.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Token event hooks
// ──────────────────────────────────────────────────

// OnTransfer is called after a transfer or delegated transfer commits.
type OnTransfer interface {
	Plugin
	OnTransfer(ctx context.Context, ev *event.Transfer) error
}

// OnApproval is called after an allowance changes, including the
// decrement performed by a delegated transfer.
type OnApproval interface {
	Plugin
	OnApproval(ctx context.Context, ev *event.Approval) error
}

// OnRejected is called when a mutation fails its balance or allowance
// check. op is the journal kind of the rejected operation.
type OnRejected interface {
	Plugin
	OnRejected(ctx context.Context, op string, err error) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnEntryCommitted is called with every journal entry after it has been
// persisted, in sequence order.
type OnEntryCommitted interface {
	Plugin
	OnEntryCommitted(ctx context.Context, e *journal.Entry) error
}
