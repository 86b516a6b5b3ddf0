package observability_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fungible "github.com/xraph/fungible"
	"github.com/xraph/fungible/observability"
	"github.com/xraph/fungible/store/memory"
	"github.com/xraph/fungible/types"
)

type counter struct {
	mu sync.Mutex
	n  float64
}

func (c *counter) Inc() { c.Add(1) }

func (c *counter) Add(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += v
}

func (c *counter) value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type histogram struct {
	mu     sync.Mutex
	values []float64
}

func (h *histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, v)
}

type fakeFactory struct {
	counters   map[string]*counter
	histograms map[string]*histogram
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

func (f *fakeFactory) Counter(name string) observability.Counter {
	c := &counter{}
	f.counters[name] = c
	return c
}

func (f *fakeFactory) Histogram(name string) observability.Histogram {
	h := &histogram{}
	f.histograms[name] = h
	return h
}

var (
	alice = types.MustParseAddress("0x00000000000000000000000000000000000a11ce")
	bob   = types.MustParseAddress("0x0000000000000000000000000000000000000b0b")
)

func newLedger(t *testing.T, m *observability.MetricsExtension) *fungible.Ledger {
	t.Helper()
	l := fungible.New(memory.New(), fungible.Config{
		Name:          "Metered",
		Symbol:        "MTR",
		TotalSupply:   types.NewAmount(1000),
		InitialHolder: alice,
	}, fungible.WithPlugin(m))
	require.NoError(t, l.Start(context.Background()))
	return l
}

func TestMetricsExtensionCounts(t *testing.T) {
	ctx := context.Background()
	f := newFakeFactory()
	l := newLedger(t, observability.NewMetricsExtension(f))

	require.NoError(t, l.Transfer(ctx, alice, bob, types.NewAmount(250)))
	require.NoError(t, l.Transfer(ctx, bob, alice, types.ZeroAmount()))
	require.NoError(t, l.Approve(ctx, alice, bob, types.NewAmount(10)))
	require.NoError(t, l.TransferFrom(ctx, bob, alice, bob, types.NewAmount(4)))
	require.ErrorIs(t, l.Transfer(ctx, bob, alice, types.NewAmount(1000)), fungible.ErrInsufficientBalance)
	require.ErrorIs(t, l.TransferFrom(ctx, bob, alice, bob, types.NewAmount(7)), fungible.ErrInsufficientAllowance)

	assert.Equal(t, 1.0, f.counters["fungible.ledger.started"].value())
	// genesis, two transfers and one delegated transfer
	assert.Equal(t, 4.0, f.counters["fungible.transfer.committed"].value())
	assert.Equal(t, 1.0, f.counters["fungible.transfer.zero_value"].value())
	// approve plus the allowance update of transfer_from
	assert.Equal(t, 2.0, f.counters["fungible.approval.committed"].value())
	assert.Equal(t, 1.0, f.counters["fungible.rejected.insufficient_balance"].value())
	assert.Equal(t, 1.0, f.counters["fungible.rejected.insufficient_allowance"].value())
	assert.Equal(t, 0.0, f.counters["fungible.rejected.other"].value())
	assert.Equal(t, 5.0, f.counters["fungible.journal.entries"].value())

	assert.Equal(t, []float64{1000, 250, 0, 4}, f.histograms["fungible.transfer.value"].values)
}
