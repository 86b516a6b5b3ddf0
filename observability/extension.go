// Package observability provides a metrics extension for the token ledger
// that records committed and rejected operation counts through a
// MetricFactory.
package observability

import (
	"context"
	"errors"
	"math/big"

	fungible "github.com/xraph/fungible"
	"github.com/xraph/fungible/event"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/plugin"
	"github.com/xraph/fungible/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin           = (*MetricsExtension)(nil)
	_ plugin.OnInit           = (*MetricsExtension)(nil)
	_ plugin.OnTransfer       = (*MetricsExtension)(nil)
	_ plugin.OnApproval       = (*MetricsExtension)(nil)
	_ plugin.OnRejected       = (*MetricsExtension)(nil)
	_ plugin.OnEntryCommitted = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records ledger activity metrics.
// Register it as a ledger plugin to track transfers and rejections.
type MetricsExtension struct {
	factory MetricFactory

	// Lifecycle metrics
	Started Counter

	// Transfer metrics
	TransfersCommitted Counter
	ZeroValueTransfers Counter
	TransferValue      Histogram

	// Allowance metrics
	ApprovalsCommitted Counter

	// Rejection metrics
	RejectedInsufficientBalance   Counter
	RejectedInsufficientAllowance Counter
	RejectedOther                 Counter

	// Journal metrics
	EntriesCommitted Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		Started: factory.Counter("fungible.ledger.started"),

		TransfersCommitted: factory.Counter("fungible.transfer.committed"),
		ZeroValueTransfers: factory.Counter("fungible.transfer.zero_value"),
		TransferValue:      factory.Histogram("fungible.transfer.value"),

		ApprovalsCommitted: factory.Counter("fungible.approval.committed"),

		RejectedInsufficientBalance:   factory.Counter("fungible.rejected.insufficient_balance"),
		RejectedInsufficientAllowance: factory.Counter("fungible.rejected.insufficient_allowance"),
		RejectedOther:                 factory.Counter("fungible.rejected.other"),

		EntriesCommitted: factory.Counter("fungible.journal.entries"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	m.Started.Inc()
	return nil
}

// OnTransfer implements plugin.OnTransfer. Values are observed in the
// token's smallest unit; precision beyond float64 is dropped.
func (m *MetricsExtension) OnTransfer(_ context.Context, ev *event.Transfer) error {
	m.TransfersCommitted.Inc()
	if ev.Value.IsZero() {
		m.ZeroValueTransfers.Inc()
	}
	m.TransferValue.Observe(toFloat(ev.Value))
	return nil
}

// OnApproval implements plugin.OnApproval.
func (m *MetricsExtension) OnApproval(_ context.Context, _ *event.Approval) error {
	m.ApprovalsCommitted.Inc()
	return nil
}

// OnRejected implements plugin.OnRejected.
func (m *MetricsExtension) OnRejected(_ context.Context, _ string, err error) error {
	switch {
	case errors.Is(err, fungible.ErrInsufficientBalance):
		m.RejectedInsufficientBalance.Inc()
	case errors.Is(err, fungible.ErrInsufficientAllowance):
		m.RejectedInsufficientAllowance.Inc()
	default:
		m.RejectedOther.Inc()
	}
	return nil
}

// OnEntryCommitted implements plugin.OnEntryCommitted.
func (m *MetricsExtension) OnEntryCommitted(_ context.Context, _ *journal.Entry) error {
	m.EntriesCommitted.Inc()
	return nil
}

func toFloat(a types.Amount) float64 {
	f, _ := new(big.Float).SetInt(a.Big()).Float64()
	return f
}
