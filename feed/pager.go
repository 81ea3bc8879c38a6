package feed

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned when a load is attempted or resolves after
	// the pager was closed; the pager's state is guaranteed untouched.
	ErrClosed = errors.New("feed: pager closed")

	// ErrLoadInFlight is returned when a load is triggered while another
	// one is still outstanding on the same pager.
	ErrLoadInFlight = errors.New("feed: load already in flight")
)

// Source fetches one window of items. Implementations typically wrap a
// network call; errors propagate to the Load caller unchanged.
type Source[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Pager accumulates windows of a remotely stored, ordered collection
// without knowing its total size. Loading page zero replaces the
// accumulated items; loading any later page appends. After each fetch
// the "has more" flag is recomputed from the page length alone.
//
// A closed pager never mutates its state again, even when an in-flight
// fetch resolves afterwards, so it is safe to abandon mid-request.
type Pager[T any] struct {
	mu       sync.Mutex
	source   Source[T]
	pageSize int
	page     int
	items    []T
	hasMore  bool
	loaded   bool
	closed   bool
	inflight bool
}

// NewPager creates a pager over the given source with a fixed window
// size. The pager reports hasMore=true until the first fetch completes.
func NewPager[T any](source Source[T], pageSize int) *Pager[T] {
	return &Pager[T]{
		source:   source,
		pageSize: pageSize,
		hasMore:  true,
	}
}

// Load fetches the given zero-based page and folds it into the
// accumulated state. At most one load may be outstanding per pager;
// concurrent triggers get ErrLoadInFlight instead of duplicate fetches.
func (p *Pager[T]) Load(ctx context.Context, pageIndex int) error {
	limit, offset, err := Window(pageIndex, p.pageSize)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.inflight {
		p.mu.Unlock()
		return ErrLoadInFlight
	}
	p.inflight = true
	p.mu.Unlock()

	// The fetch runs outside the lock; reads stay responsive meanwhile.
	page, err := p.source(ctx, limit, offset)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight = false

	// The pager may have been closed while the fetch was in flight.
	// Discard the result without touching state.
	if p.closed {
		return ErrClosed
	}
	if err != nil {
		return err
	}

	if pageIndex == 0 {
		p.items = append(p.items[:0:0], page...)
	} else {
		p.items = append(p.items, page...)
	}
	p.page = pageIndex
	p.hasMore = HasMore(len(page), p.pageSize)
	p.loaded = true
	return nil
}

// LoadMore fetches the next page after the most recently loaded one, or
// page zero if nothing has been loaded yet.
func (p *Pager[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	next := 0
	if p.loaded {
		next = p.page + 1
	}
	p.mu.Unlock()

	return p.Load(ctx, next)
}

// Refresh reloads page zero, replacing the accumulated items.
func (p *Pager[T]) Refresh(ctx context.Context) error {
	return p.Load(ctx, 0)
}

// Items returns a snapshot of the accumulated items in fetch order.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether another page may exist.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Len returns the number of accumulated items.
func (p *Pager[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Close marks the pager dead. Any fetch that resolves afterwards is
// discarded. Close is idempotent.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}
