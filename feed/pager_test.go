package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeSource serves windows of a fixed item list, counting fetches.
type fakeSource struct {
	items  []string
	calls  int
	failOn int // fail on the nth call (1-based), 0 = never
}

func (f *fakeSource) fetch(_ context.Context, limit, offset int) ([]string, error) {
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return nil, errors.New("boom")
	}
	if offset >= len(f.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[offset:end], nil
}

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("post-%02d", i)
	}
	return out
}

func TestPagerAccumulates(t *testing.T) {
	src := &fakeSource{items: numbered(14)}
	p := NewPager(src.fetch, 6)
	ctx := context.Background()

	if !p.HasMore() {
		t.Fatal("fresh pager should report more")
	}

	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("page 0: %v", err)
	}
	if p.Len() != 6 || !p.HasMore() {
		t.Fatalf("after page 0: len=%d hasMore=%v", p.Len(), p.HasMore())
	}

	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if p.Len() != 12 || !p.HasMore() {
		t.Fatalf("after page 1: len=%d hasMore=%v", p.Len(), p.HasMore())
	}

	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if p.Len() != 14 || p.HasMore() {
		t.Fatalf("after page 2: len=%d hasMore=%v", p.Len(), p.HasMore())
	}

	items := p.Items()
	if items[0] != "post-00" || items[13] != "post-13" {
		t.Errorf("order not preserved: first=%q last=%q", items[0], items[13])
	}
}

func TestPagerEmptyOverrunPage(t *testing.T) {
	// 12 items with page size 6: pages 0 and 1 are full, so the pager
	// still reports more until a third fetch comes back empty.
	src := &fakeSource{items: numbered(12)}
	p := NewPager(src.fetch, 6)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := p.LoadMore(ctx); err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
	}
	if !p.HasMore() {
		t.Fatal("exact-multiple collection should still report more")
	}

	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("empty page: %v", err)
	}
	if p.Len() != 12 {
		t.Errorf("len = %d, want 12 (empty page appends nothing)", p.Len())
	}
	if p.HasMore() {
		t.Error("empty page should resolve hasMore to false")
	}
}

func TestPagerRefreshReplaces(t *testing.T) {
	src := &fakeSource{items: numbered(14)}
	p := NewPager(src.fetch, 6)
	ctx := context.Background()

	p.LoadMore(ctx)
	p.LoadMore(ctx)
	if p.Len() != 12 {
		t.Fatalf("len = %d, want 12", p.Len())
	}

	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if p.Len() != 6 {
		t.Errorf("len after refresh = %d, want 6 (replace, not append)", p.Len())
	}

	// Refresh again: same state, no duplicates.
	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if p.Len() != 6 {
		t.Errorf("len after second refresh = %d, want 6", p.Len())
	}
}

func TestPagerFetchErrorKeepsState(t *testing.T) {
	src := &fakeSource{items: numbered(14), failOn: 2}
	p := NewPager(src.fetch, 6)
	ctx := context.Background()

	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("page 0: %v", err)
	}
	if err := p.LoadMore(ctx); err == nil {
		t.Fatal("expected fetch error")
	}
	if p.Len() != 6 {
		t.Errorf("len = %d, want 6 (failed fetch must not mutate)", p.Len())
	}

	// The failed page can be retried.
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if p.Len() != 12 {
		t.Errorf("len after retry = %d, want 12", p.Len())
	}
}

func TestPagerCloseDiscardsInFlightResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	source := func(_ context.Context, limit, offset int) ([]string, error) {
		close(started)
		<-release
		return numbered(6), nil
	}
	p := NewPager(source, 6)

	done := make(chan error, 1)
	go func() {
		done <- p.Load(context.Background(), 0)
	}()

	<-started
	p.Close()
	close(release)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if p.Len() != 0 {
		t.Errorf("len = %d, want 0 (closed pager must not mutate)", p.Len())
	}
}

func TestPagerLoadAfterClose(t *testing.T) {
	src := &fakeSource{items: numbered(6)}
	p := NewPager(src.fetch, 6)
	p.Close()

	if err := p.Load(context.Background(), 0); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if src.calls != 0 {
		t.Errorf("source called %d times after close, want 0", src.calls)
	}
}

func TestPagerRejectsConcurrentLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	source := func(_ context.Context, limit, offset int) ([]string, error) {
		close(started)
		<-release
		return nil, nil
	}
	p := NewPager(source, 6)

	go p.Load(context.Background(), 0)
	<-started

	if err := p.Load(context.Background(), 1); !errors.Is(err, ErrLoadInFlight) {
		t.Fatalf("err = %v, want ErrLoadInFlight", err)
	}
	close(release)
}
