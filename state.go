package fungible

import (
	"fmt"

	"github.com/xraph/fungible/journal"
	"github.com/xraph/fungible/types"
)

type allowanceKey struct {
	owner   types.Address
	spender types.Address
}

// state holds the balance and allowance tables. Absent keys read as zero and
// zero values are never stored.
type state struct {
	balances   map[types.Address]types.Amount
	allowances map[allowanceKey]types.Amount
}

func newState() *state {
	return &state{
		balances:   make(map[types.Address]types.Amount),
		allowances: make(map[allowanceKey]types.Amount),
	}
}

func (s *state) balanceOf(a types.Address) types.Amount {
	return s.balances[a]
}

func (s *state) allowanceOf(owner, spender types.Address) types.Amount {
	return s.allowances[allowanceKey{owner: owner, spender: spender}]
}

// changeset is the full set of writes an entry produces. It is computed
// before anything is persisted so a rejected or unpersisted entry leaves the
// tables untouched.
type changeset struct {
	balances   map[types.Address]types.Amount
	allowances map[allowanceKey]types.Amount
}

// prepare runs the domain checks for e against the current tables and
// returns the writes it would make. For transfer_from the allowance is
// checked before the balance.
func (s *state) prepare(e *journal.Entry) (*changeset, error) {
	cs := &changeset{
		balances:   make(map[types.Address]types.Amount, 2),
		allowances: make(map[allowanceKey]types.Amount, 1),
	}

	switch e.Kind {
	case journal.KindGenesis:
		if len(s.balances) > 0 || len(s.allowances) > 0 {
			return nil, fmt.Errorf("%w: genesis over non-empty state", ErrJournalCorrupt)
		}
		cs.balances[e.To] = e.Amount

	case journal.KindTransfer:
		if err := s.move(cs, e.Caller, e.To, e.Amount); err != nil {
			return nil, err
		}

	case journal.KindApprove:
		cs.allowances[allowanceKey{owner: e.Caller, spender: e.Spender}] = e.Amount

	case journal.KindTransferFrom:
		key := allowanceKey{owner: e.Owner, spender: e.Caller}
		remaining, under := s.allowances[key].CheckedSub(e.Amount)
		if under {
			return nil, ErrInsufficientAllowance
		}
		if err := s.move(cs, e.Owner, e.To, e.Amount); err != nil {
			return nil, err
		}
		cs.allowances[key] = remaining

	default:
		return nil, fmt.Errorf("%w: unknown entry kind %q", ErrInvalidInput, e.Kind)
	}

	return cs, nil
}

// move records a debit of from and a credit of to. A self-move only checks
// the balance and writes nothing.
func (s *state) move(cs *changeset, from, to types.Address, amount types.Amount) error {
	debited, under := s.balances[from].CheckedSub(amount)
	if under {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	credited, overflow := s.balances[to].CheckedAdd(amount)
	if overflow {
		return fmt.Errorf("%w: balance of %s overflows", ErrInvalidAmount, to.Hex())
	}
	cs.balances[from] = debited
	cs.balances[to] = credited
	return nil
}

func (s *state) commit(cs *changeset) {
	for a, v := range cs.balances {
		if v.IsZero() {
			delete(s.balances, a)
			continue
		}
		s.balances[a] = v
	}
	for k, v := range cs.allowances {
		if v.IsZero() {
			delete(s.allowances, k)
			continue
		}
		s.allowances[k] = v
	}
}

// apply is prepare followed by commit.
func (s *state) apply(e *journal.Entry) error {
	cs, err := s.prepare(e)
	if err != nil {
		return err
	}
	s.commit(cs)
	return nil
}

func (s *state) supply() (types.Amount, bool) {
	values := make([]types.Amount, 0, len(s.balances))
	for _, v := range s.balances {
		values = append(values, v)
	}
	return types.Sum(values...)
}
