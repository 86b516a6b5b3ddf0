package journal

import "context"

type Store interface {
	AppendEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, opts ListOpts) ([]*Entry, error)
	LastSequence(ctx context.Context) (uint64, error)
}

// ListOpts selects entries with Seq > AfterSeq in ascending order.
// A zero Limit returns every remaining entry.
type ListOpts struct {
	AfterSeq uint64
	Limit    int
}
