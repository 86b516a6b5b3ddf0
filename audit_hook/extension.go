// Package audithook bridges token ledger events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit system. Callers inject a RecorderFunc adapter at
// wiring time.
package audithook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	fungible "github.com/xraph/fungible"
	"github.com/xraph/fungible/event"
	"github.com/xraph/fungible/plugin"
	"github.com/xraph/fungible/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin     = (*Extension)(nil)
	_ plugin.OnInit     = (*Extension)(nil)
	_ plugin.OnShutdown = (*Extension)(nil)
	_ plugin.OnTransfer = (*Extension)(nil)
	_ plugin.OnApproval = (*Extension)(nil)
	_ plugin.OnRejected = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit trail record.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges ledger events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit implements plugin.OnInit.
func (e *Extension) OnInit(ctx context.Context, l any) error {
	var kv []any
	resourceID := ""
	if led, ok := l.(*fungible.Ledger); ok {
		tok := led.Token()
		resourceID = tok.ID.String()
		kv = append(kv,
			"symbol", tok.Symbol,
			"total_supply", tok.TotalSupply.String(),
			"sequence", led.Sequence(),
		)
	}
	return e.record(ctx, ActionLedgerStarted, SeverityInfo, OutcomeSuccess,
		ResourceLedger, resourceID, CategoryLifecycle, nil, kv...)
}

// OnShutdown implements plugin.OnShutdown.
func (e *Extension) OnShutdown(ctx context.Context) error {
	return e.record(ctx, ActionLedgerStopped, SeverityInfo, OutcomeSuccess,
		ResourceLedger, "", CategoryLifecycle, nil)
}

// ──────────────────────────────────────────────────
// Token hooks
// ──────────────────────────────────────────────────

// OnTransfer implements plugin.OnTransfer. The genesis credit, which
// arrives as seq 1 from the zero address, is audited as a mint.
func (e *Extension) OnTransfer(ctx context.Context, ev *event.Transfer) error {
	action := ActionTokenTransfer
	if ev.Seq == 1 && ev.From == types.ZeroAddress {
		action = ActionTokenMinted
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceBalance, ev.From.Hex(), CategoryTransfer, nil,
		"seq", ev.Seq,
		"from", ev.From.Hex(),
		"to", ev.To.Hex(),
		"value", ev.Value.String(),
	)
}

// OnApproval implements plugin.OnApproval.
func (e *Extension) OnApproval(ctx context.Context, ev *event.Approval) error {
	return e.record(ctx, ActionTokenApproval, SeverityInfo, OutcomeSuccess,
		ResourceAllowance, ev.Owner.Hex(), CategoryAccess, nil,
		"seq", ev.Seq,
		"owner", ev.Owner.Hex(),
		"spender", ev.Spender.Hex(),
		"value", ev.Value.String(),
	)
}

// OnRejected implements plugin.OnRejected.
func (e *Extension) OnRejected(ctx context.Context, op string, cause error) error {
	resource := ResourceBalance
	if errors.Is(cause, fungible.ErrInsufficientAllowance) {
		resource = ResourceAllowance
	}
	return e.record(ctx, ActionTokenRejected, SeverityWarning, OutcomeFailure,
		resource, "", CategoryTransfer, cause,
		"op", op,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
