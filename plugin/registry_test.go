package plugin_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fungible/event"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/plugin"
)

type named string

func (n named) Name() string { return string(n) }

type transferCounter struct {
	named
	calls atomic.Int32
}

func (c *transferCounter) OnTransfer(context.Context, *event.Transfer) error {
	c.calls.Add(1)
	return nil
}

type slowPlugin struct {
	named
	release chan struct{}
}

func (s *slowPlugin) OnEntryCommitted(context.Context, *journal.Entry) error {
	<-s.release
	return nil
}

type failing struct{ named }

func (failing) OnApproval(context.Context, *event.Approval) error {
	return errors.New("boom")
}

func (failing) OnRejected(context.Context, string, error) error {
	return errors.New("boom")
}

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, r.Register(named("a")))
	require.NoError(t, r.Register(named("b")))

	err := r.Register(named("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, "b", r.Get("b").Name())
	assert.Nil(t, r.Get("missing"))

	list := r.List()
	require.Len(t, list, 2)
	list[0] = named("mutated")
	assert.Equal(t, "a", r.List()[0].Name())
}

func TestDispatchOnlyReachesImplementers(t *testing.T) {
	r := plugin.NewRegistry()
	counter := &transferCounter{named: "counter"}
	require.NoError(t, r.Register(counter))
	require.NoError(t, r.Register(named("silent")))

	r.EmitTransfer(context.Background(), &event.Transfer{Seq: 1})
	r.EmitTransfer(context.Background(), &event.Transfer{Seq: 2})
	r.EmitApproval(context.Background(), &event.Approval{Seq: 3})

	assert.Equal(t, int32(2), counter.calls.Load())
}

func TestHookErrorsAreContained(t *testing.T) {
	r := plugin.NewRegistry()
	counter := &transferCounter{named: "counter"}
	require.NoError(t, r.Register(failing{named: "failing"}))
	require.NoError(t, r.Register(counter))

	r.EmitApproval(context.Background(), &event.Approval{Seq: 1})
	r.EmitRejected(context.Background(), "transfer", errors.New("insufficient"))
	r.EmitTransfer(context.Background(), &event.Transfer{Seq: 2})

	assert.Equal(t, int32(1), counter.calls.Load())
}

func TestSlowHookTimesOut(t *testing.T) {
	slow := &slowPlugin{named: "slow", release: make(chan struct{})}
	defer close(slow.release)

	r := plugin.NewRegistry().WithTimeout(20 * time.Millisecond)
	require.NoError(t, r.Register(slow))

	start := time.Now()
	r.EmitEntryCommitted(context.Background(), &journal.Entry{Seq: 1})
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	slow := &slowPlugin{named: "slow", release: make(chan struct{})}

	r := plugin.NewRegistry().WithTimeout(0).WithTimeout(-time.Second)
	require.NoError(t, r.Register(slow))

	done := make(chan struct{})
	go func() {
		r.EmitEntryCommitted(context.Background(), &journal.Entry{Seq: 1})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("dispatch returned before the hook finished")
	case <-time.After(50 * time.Millisecond):
	}
	close(slow.release)
	<-done
}
