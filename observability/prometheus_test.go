package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fungible/observability"
	"github.com/xraph/fungible/types"
)

func TestPrometheusFactoryNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := observability.NewPrometheusFactory(reg, "app")

	c := f.Counter("fungible.transfer.committed")
	c.Inc()
	c.Add(2)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.(prometheus.Counter)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "app_fungible_transfer_committed_total", families[0].GetName())
}

func TestPrometheusFactoryReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := observability.NewPrometheusFactory(reg, "")
	second := observability.NewPrometheusFactory(reg, "")

	a := first.Counter("fungible.journal.entries")
	b := second.Counter("fungible.journal.entries")
	a.Inc()
	b.Inc()

	assert.Same(t, a.(prometheus.Counter), first.Counter("fungible.journal.entries").(prometheus.Counter))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.(prometheus.Counter)))
}

func TestPrometheusFactoryWithLedger(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := observability.NewMetricsExtension(observability.NewPrometheusFactory(reg, ""))
	l := newLedger(t, m)

	require.NoError(t, l.Transfer(ctx, alice, bob, types.NewAmount(5)))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransfersCommitted.(prometheus.Counter)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EntriesCommitted.(prometheus.Counter)))

	families, err := reg.Gather()
	require.NoError(t, err)
	var observed uint64
	for _, mf := range families {
		if mf.GetName() == "fungible_transfer_value" {
			observed = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(2), observed)
}
