package fungible

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/fungible/event"
	"github.com/xraph/fungible/id"
	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/plugin"
	"github.com/xraph/fungible/store"
	"github.com/xraph/fungible/token"
	"github.com/xraph/fungible/types"
)

// replayPageSize is the number of journal entries read per page on Start.
const replayPageSize = 500

// Config fixes the asset a Ledger accounts for. It is applied exactly once,
// when the backing store is first initialized.
type Config struct {
	Name          string
	Symbol        string
	Decimals      uint8
	TotalSupply   types.Amount
	InitialHolder types.Address
}

// Validate reports every problem with the configuration. New accepts any
// Config, so callers that take it from user input should validate first.
func (c Config) Validate() error {
	var errs MultiError
	if c.Name == "" {
		errs.Add(ValidationError{Field: "name", Message: "must not be empty"})
	}
	if c.Symbol == "" {
		errs.Add(ValidationError{Field: "symbol", Message: "must not be empty"})
	}
	if c.Decimals > 77 {
		errs.Add(ValidationError{Field: "decimals", Message: "must be at most 77"})
	}
	return errs.ErrorOrNil()
}

func (c Config) token() token.Token {
	return token.Token{
		Name:          c.Name,
		Symbol:        c.Symbol,
		Decimals:      c.Decimals,
		TotalSupply:   c.TotalSupply,
		InitialHolder: c.InitialHolder,
	}
}

// Ledger is the fungible-token accounting engine. Mutations are serialized
// by a single writer lock and journaled before they become visible; reads
// never observe a partially applied operation.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	now     func() time.Time
	migrate bool

	mu      sync.RWMutex
	token   token.Token
	state   *state
	seq     uint64
	ready   bool
	tickets uint64 // committed operations handed to dispatch; guarded by mu

	// Plugin events are delivered one operation at a time in commit order.
	dispatchMu   sync.Mutex
	dispatchCond *sync.Cond
	delivered    uint64
}

// New creates a Ledger for the given asset. The full supply is credited to
// cfg.InitialHolder immediately so reads work before Start; mutations need
// Start to load or initialize the store.
func New(s store.Store, cfg Config, opts ...Option) *Ledger {
	l := &Ledger{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		now:     time.Now,
		migrate: true,
		token:   cfg.token(),
		state:   newState(),
	}
	l.dispatchCond = sync.NewCond(&l.dispatchMu)

	for _, opt := range opts {
		opt(l)
	}

	_ = l.state.apply(l.genesis()) //nolint:errcheck // genesis over an empty state cannot fail
	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		if err := l.plugins.Register(p); err != nil {
			l.logger.Warn("plugin not registered",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.plugins.WithTimeout(d)
	}
}

// WithClock sets the clock used to timestamp journal entries.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithoutMigrations skips store migrations on Start, for schemas managed
// outside the process.
func WithoutMigrations() Option {
	return func(l *Ledger) {
		l.migrate = false
	}
}

// Start migrates the store and brings the in-memory tables in line with it.
// A fresh store receives the token definition and a genesis entry; an
// existing one must hold the same token and has its journal replayed.
func (l *Ledger) Start(ctx context.Context) error {
	if l.migrate {
		if err := l.store.Migrate(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
		}
	}

	l.mu.Lock()
	minted, err := l.load(ctx)
	if err != nil {
		l.mu.Unlock()
		l.logger.Error("ledger start failed", "error", err)
		return err
	}
	l.ready = true
	tok := l.token
	seq := l.seq
	holders := len(l.state.balances)
	var ticket uint64
	if minted != nil {
		ticket = l.nextTicket()
	}
	l.mu.Unlock()

	if minted != nil {
		l.inOrder(ticket, func() {
			l.dispatch(ctx, minted, types.ZeroAmount())
		})
	}
	l.plugins.EmitInit(ctx, l)

	l.logger.Info("ledger started",
		"token", tok.ID.String(),
		"symbol", tok.Symbol,
		"seq", seq,
		"holders", holders,
	)

	return nil
}

// Stop rejects further mutations, notifies plugins and closes the store.
func (l *Ledger) Stop() error {
	l.mu.Lock()
	l.ready = false
	l.mu.Unlock()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// load reads the token and replays the journal into a fresh state. It
// returns the genesis entry when this call wrote it. Callers hold l.mu.
func (l *Ledger) load(ctx context.Context) (*journal.Entry, error) {
	want := l.token
	stored, err := l.store.GetToken(ctx)
	switch {
	case errors.Is(err, ErrTokenNotFound):
		want.ID = id.NewTokenID()
		want.Entity = types.NewEntity()
		if err := l.store.CreateToken(ctx, &want); err != nil {
			return nil, fmt.Errorf("fungible: create token: %w", err)
		}
		stored = &want
	case err != nil:
		return nil, fmt.Errorf("fungible: load token: %w", err)
	case !stored.Matches(&want):
		return nil, fmt.Errorf("%w: stored %s (%s), configured %s (%s)",
			ErrTokenMismatch, stored.Name, stored.Symbol, want.Name, want.Symbol)
	}
	l.token = *stored

	st := newState()
	var seq uint64
	for {
		entries, err := l.store.ListEntries(ctx, journal.ListOpts{AfterSeq: seq, Limit: replayPageSize})
		if err != nil {
			return nil, fmt.Errorf("fungible: list entries: %w", err)
		}
		for _, e := range entries {
			if err := l.replay(st, seq, e); err != nil {
				return nil, err
			}
			seq = e.Seq
		}
		if len(entries) < replayPageSize {
			break
		}
	}

	var minted *journal.Entry
	if seq == 0 {
		minted = l.genesis()
		if err := l.store.AppendEntry(ctx, minted); err != nil {
			return nil, fmt.Errorf("fungible: append genesis: %w", err)
		}
		_ = st.apply(minted) //nolint:errcheck // genesis over an empty state cannot fail
		seq = minted.Seq
	}

	if total, overflow := st.supply(); overflow || !total.Equal(l.token.TotalSupply) {
		return nil, fmt.Errorf("%w: balances sum to %s, supply is %s",
			ErrJournalCorrupt, total, l.token.TotalSupply)
	}

	l.state = st
	l.seq = seq
	return minted, nil
}

// replay applies one stored entry on top of st, which must be at seq last.
func (l *Ledger) replay(st *state, last uint64, e *journal.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrJournalCorrupt, err)
	}
	if e.Seq != last+1 {
		return fmt.Errorf("%w: expected seq %d, found %d", ErrJournalCorrupt, last+1, e.Seq)
	}
	if e.Kind == journal.KindGenesis &&
		(e.To != l.token.InitialHolder || !e.Amount.Equal(l.token.TotalSupply)) {
		return fmt.Errorf("%w: genesis does not match token", ErrJournalCorrupt)
	}
	if err := st.apply(e); err != nil {
		return fmt.Errorf("%w: entry %d: %w", ErrJournalCorrupt, e.Seq, err)
	}
	return nil
}

func (l *Ledger) genesis() *journal.Entry {
	return &journal.Entry{
		ID:        id.NewEntryID(),
		Seq:       1,
		Kind:      journal.KindGenesis,
		Caller:    l.token.InitialHolder,
		To:        l.token.InitialHolder,
		Amount:    l.token.TotalSupply,
		Timestamp: l.now().UTC(),
	}
}

// ──────────────────────────────────────────────────
// Read queries
// ──────────────────────────────────────────────────

// Name returns the display name of the token.
func (l *Ledger) Name() string { return l.Token().Name }

// Symbol returns the short ticker of the token.
func (l *Ledger) Symbol() string { return l.Token().Symbol }

// Decimals returns the number of fractional digits of one whole token.
func (l *Ledger) Decimals() uint8 { return l.Token().Decimals }

// TotalSupply returns the fixed issuance in smallest units.
func (l *Ledger) TotalSupply() types.Amount { return l.Token().TotalSupply }

// Token returns a copy of the token definition. ID and timestamps are set
// once Start has run.
func (l *Ledger) Token() token.Token {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.token
}

// BalanceOf returns the balance of account, zero if it was never credited.
func (l *Ledger) BalanceOf(account types.Address) types.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.balanceOf(account)
}

// Allowance returns what spender may still transfer on behalf of owner.
func (l *Ledger) Allowance(owner, spender types.Address) types.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.allowanceOf(owner, spender)
}

// Holders returns a snapshot of every non-zero balance.
func (l *Ledger) Holders() map[types.Address]types.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[types.Address]types.Amount, len(l.state.balances))
	for a, v := range l.state.balances {
		result[a] = v
	}
	return result
}

// Sequence returns the sequence number of the last applied journal entry.
func (l *Ledger) Sequence() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.seq
}

// Entries reads the journal from the store.
func (l *Ledger) Entries(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	return l.store.ListEntries(ctx, opts)
}

// ──────────────────────────────────────────────────
// Mutations
// ──────────────────────────────────────────────────

// Transfer moves amount from caller to to. It fails with
// ErrInsufficientBalance, leaving every table unchanged, when caller holds
// less than amount. Transferring to oneself succeeds without changing the
// balance.
func (l *Ledger) Transfer(ctx context.Context, caller, to types.Address, amount types.Amount) error {
	return l.execute(ctx, &journal.Entry{
		Kind:   journal.KindTransfer,
		Caller: caller,
		To:     to,
		Amount: amount,
	})
}

// Approve sets the allowance of spender over caller's balance to exactly
// amount, replacing any previous value. The amount may exceed the balance.
func (l *Ledger) Approve(ctx context.Context, caller, spender types.Address, amount types.Amount) error {
	return l.execute(ctx, &journal.Entry{
		Kind:    journal.KindApprove,
		Caller:  caller,
		Spender: spender,
		Amount:  amount,
	})
}

// TransferFrom moves amount from owner to to on behalf of caller, spending
// caller's allowance. The allowance is checked first, so a caller lacking
// both allowance and owner funds gets ErrInsufficientAllowance.
func (l *Ledger) TransferFrom(ctx context.Context, caller, owner, to types.Address, amount types.Amount) error {
	return l.execute(ctx, &journal.Entry{
		Kind:   journal.KindTransferFrom,
		Caller: caller,
		Owner:  owner,
		To:     to,
		Amount: amount,
	})
}

// execute checks, persists and applies one mutation under the writer lock,
// then notifies plugins outside it.
func (l *Ledger) execute(ctx context.Context, e *journal.Entry) error {
	l.mu.Lock()
	if !l.ready {
		l.mu.Unlock()
		return ErrStoreNotReady
	}

	e.ID = id.NewEntryID()
	e.Seq = l.seq + 1
	e.Timestamp = l.now().UTC()

	cs, err := l.state.prepare(e)
	if err != nil {
		l.mu.Unlock()
		l.logger.Debug("operation rejected",
			"op", string(e.Kind),
			"caller", e.Caller.Hex(),
			"amount", e.Amount.String(),
			"error", err,
		)
		l.plugins.EmitRejected(ctx, string(e.Kind), err)
		return err
	}

	if err := l.store.AppendEntry(ctx, e); err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			l.catchUp(ctx)
		}
		l.mu.Unlock()
		l.logger.Error("journal append failed",
			"op", string(e.Kind),
			"seq", e.Seq,
			"error", err,
		)
		return fmt.Errorf("fungible: append entry %d: %w", e.Seq, err)
	}

	l.state.commit(cs)
	l.seq = e.Seq
	remaining := l.state.allowanceOf(e.Owner, e.Caller)
	ticket := l.nextTicket()
	l.mu.Unlock()

	l.logger.Debug("operation committed",
		"op", string(e.Kind),
		"seq", e.Seq,
		"caller", e.Caller.Hex(),
		"amount", e.Amount.String(),
	)

	l.inOrder(ticket, func() {
		l.dispatch(ctx, e, remaining)
	})
	return nil
}

// nextTicket reserves the next dispatch slot. Callers hold l.mu, so tickets
// follow journal order.
func (l *Ledger) nextTicket() uint64 {
	l.tickets++
	return l.tickets
}

// inOrder runs fn once every lower ticket has been delivered. Hooks run
// without l.mu held so they may read the ledger.
func (l *Ledger) inOrder(ticket uint64, fn func()) {
	l.dispatchMu.Lock()
	for l.delivered+1 != ticket {
		l.dispatchCond.Wait()
	}
	l.dispatchMu.Unlock()

	fn()

	l.dispatchMu.Lock()
	l.delivered = ticket
	l.dispatchCond.Broadcast()
	l.dispatchMu.Unlock()
}

// catchUp applies entries another writer appended to the shared store so a
// retried operation sees them. Callers hold l.mu.
func (l *Ledger) catchUp(ctx context.Context) {
	entries, err := l.store.ListEntries(ctx, journal.ListOpts{AfterSeq: l.seq})
	if err != nil {
		l.logger.Error("journal catch-up failed", "seq", l.seq, "error", err)
		return
	}

	for _, e := range entries {
		if err := l.replay(l.state, l.seq, e); err != nil {
			l.ready = false
			l.logger.Error("journal catch-up diverged, ledger stopped accepting writes",
				"seq", e.Seq,
				"error", err,
			)
			return
		}
		l.seq = e.Seq
	}
	l.logger.Warn("ledger caught up with external writer",
		"entries", len(entries),
		"seq", l.seq,
	)
}

// dispatch emits the plugin events for a committed entry. remaining is the
// allowance left after a transfer_from and is ignored otherwise.
func (l *Ledger) dispatch(ctx context.Context, e *journal.Entry, remaining types.Amount) {
	l.plugins.EmitEntryCommitted(ctx, e)

	switch e.Kind {
	case journal.KindGenesis:
		l.plugins.EmitTransfer(ctx, &event.Transfer{
			Seq: e.Seq, From: types.ZeroAddress, To: e.To, Value: e.Amount,
		})
	case journal.KindTransfer:
		l.plugins.EmitTransfer(ctx, &event.Transfer{
			Seq: e.Seq, From: e.Caller, To: e.To, Value: e.Amount,
		})
	case journal.KindApprove:
		l.plugins.EmitApproval(ctx, &event.Approval{
			Seq: e.Seq, Owner: e.Caller, Spender: e.Spender, Value: e.Amount,
		})
	case journal.KindTransferFrom:
		l.plugins.EmitTransfer(ctx, &event.Transfer{
			Seq: e.Seq, From: e.Owner, To: e.To, Value: e.Amount,
		})
		l.plugins.EmitApproval(ctx, &event.Approval{
			Seq: e.Seq, Owner: e.Owner, Spender: e.Caller, Value: remaining,
		})
	}
}
