package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/chirp/internal/domain"
)

func posts(ids ...string) []domain.PostWithAuthor {
	res := make([]domain.PostWithAuthor, 0, len(ids))
	for _, id := range ids {
		res = append(res, domain.PostWithAuthor{
			Post:   domain.Post{ID: id, Content: "content of " + id, AuthorID: 1},
			Author: domain.Author{ID: 1, Username: "julia"},
		})
	}
	return res
}

// blockingFetcher returns a fetcher that waits for a value on release
// before returning, and tracks how many fetches ran at the same time.
type blockingFetcher struct {
	release   chan struct{}
	calls     atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
	result    func(call int32) ([]domain.PostWithAuthor, error)
}

func newBlockingFetcher(t *testing.T) *blockingFetcher {
	f := &blockingFetcher{
		release: make(chan struct{}),
		result: func(int32) ([]domain.PostWithAuthor, error) {
			return posts("p1"), nil
		},
	}
	t.Cleanup(func() { close(f.release) })
	return f
}

func (f *blockingFetcher) fetch(ctx context.Context) ([]domain.PostWithAuthor, error) {
	n := f.calls.Add(1)
	a := f.active.Add(1)
	for {
		m := f.maxActive.Load()
		if a <= m || f.maxActive.CompareAndSwap(m, a) {
			break
		}
	}
	<-f.release
	f.active.Add(-1)
	return f.result(n)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func newClient(t *testing.T) (*Client, *Bus) {
	bus := NewBus()
	c := New(context.Background(), bus, Options{})
	t.Cleanup(c.Close)
	return c, bus
}

func TestLoadPreservesOrder(t *testing.T) {
	c, _ := newClient(t)
	var calls atomic.Int32
	want := posts("p3", "p1", "p2")
	c.Register(ListPosts, func(ctx context.Context) ([]domain.PostWithAuthor, error) {
		calls.Add(1)
		return want, nil
	})

	s, err := c.Load(context.Background(), ListPosts)
	if err != nil {
		t.Fatal(err)
	}
	if s.State != Loaded {
		t.Fatalf("expected loaded, got %s", s.State)
	}
	if diff := cmp.Diff(want, s.Posts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}

	if _, err = c.Load(context.Background(), ListPosts); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single fetch, got %d", n)
	}
}

func TestLoadAbsentData(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		result  []domain.PostWithAuthor
		err     error
		state   State
		wantErr error
		rows    int
	}{
		{name: "empty list", result: []domain.PostWithAuthor{}, state: Loaded, rows: 0},
		{name: "nil list", result: nil, state: Errored, wantErr: ErrNoData},
		{name: "fetch error", err: boom, state: Errored, wantErr: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(t)
			c.Register(ListPosts, func(ctx context.Context) ([]domain.PostWithAuthor, error) {
				return tt.result, tt.err
			})

			s, err := c.Load(context.Background(), ListPosts)
			if err != nil {
				t.Fatal(err)
			}
			if s.State != tt.state {
				t.Errorf("expected state %s, got %s", tt.state, s.State)
			}
			if !errors.Is(s.Err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, s.Err)
			}
			if tt.state == Loaded && s.Posts == nil {
				t.Error("loaded snapshot carries nil posts")
			}
			if len(s.Posts) != tt.rows {
				t.Errorf("expected %d rows, got %d", tt.rows, len(s.Posts))
			}
		})
	}
}

func TestLoadUnknownQuery(t *testing.T) {
	c, _ := newClient(t)
	if _, err := c.Load(context.Background(), "nope"); !errors.Is(err, ErrUnknownQuery) {
		t.Errorf("expected ErrUnknownQuery, got %v", err)
	}
	if err := c.Invalidate("nope"); !errors.Is(err, ErrUnknownQuery) {
		t.Errorf("expected ErrUnknownQuery, got %v", err)
	}
}

func TestErroredRecoversAfterInvalidation(t *testing.T) {
	c, _ := newClient(t)
	var fail atomic.Bool
	fail.Store(true)
	c.Register(ListPosts, func(ctx context.Context) ([]domain.PostWithAuthor, error) {
		if fail.Load() {
			return nil, errors.New("unavailable")
		}
		return posts("p1"), nil
	})

	s, _ := c.Load(context.Background(), ListPosts)
	if s.State != Errored {
		t.Fatalf("expected errored, got %s", s.State)
	}

	fail.Store(false)
	if err := c.Invalidate(ListPosts); err != nil {
		t.Fatal(err)
	}
	s, _ = c.Load(context.Background(), ListPosts)
	if s.State != Loaded || len(s.Posts) != 1 {
		t.Errorf("expected one loaded post, got %s with %d posts", s.State, len(s.Posts))
	}
}

func TestInvalidationHidesStaleData(t *testing.T) {
	c, _ := newClient(t)
	f := newBlockingFetcher(t)
	c.Register(ListPosts, f.fetch)

	go func() { f.release <- struct{}{} }()
	s, _ := c.Load(context.Background(), ListPosts)
	if s.State != Loaded {
		t.Fatalf("expected loaded, got %s", s.State)
	}

	if err := c.Invalidate(ListPosts); err != nil {
		t.Fatal(err)
	}
	s = c.Peek(ListPosts)
	if s.State != Loading {
		t.Errorf("expected loading after invalidation, got %s", s.State)
	}
	if s.Posts != nil {
		t.Errorf("stale posts handed out while loading: %v", s.Posts)
	}
	f.release <- struct{}{}
}

func TestInvalidationsCoalesce(t *testing.T) {
	c, _ := newClient(t)
	f := newBlockingFetcher(t)
	f.result = func(call int32) ([]domain.PostWithAuthor, error) {
		if call == 1 {
			return posts("old"), nil
		}
		return posts("new", "old"), nil
	}
	c.Register(ListPosts, f.fetch)

	if err := c.Invalidate(ListPosts); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return f.calls.Load() == 1 })

	// Both arrive while the first fetch is in flight.
	c.Invalidate(ListPosts)
	c.Invalidate(ListPosts)

	f.release <- struct{}{}
	waitFor(t, func() bool { return f.calls.Load() == 2 })
	f.release <- struct{}{}

	s, err := c.Load(context.Background(), ListPosts)
	if err != nil {
		t.Fatal(err)
	}
	if s.State != Loaded {
		t.Fatalf("expected loaded, got %s", s.State)
	}
	if diff := cmp.Diff(posts("new", "old"), s.Posts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}
	if s.Version != 2 {
		t.Errorf("expected version 2, got %d", s.Version)
	}
	if n := f.calls.Load(); n != 2 {
		t.Errorf("expected 2 fetches, got %d", n)
	}
	if m := f.maxActive.Load(); m != 1 {
		t.Errorf("expected at most one fetch in flight, got %d", m)
	}
}

func TestLoadTimeoutReturnsLoading(t *testing.T) {
	c, _ := newClient(t)
	f := newBlockingFetcher(t)
	c.Register(ListPosts, f.fetch)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s, err := c.Load(ctx, ListPosts)
	if err != nil {
		t.Fatal(err)
	}
	if s.State != Loading {
		t.Errorf("expected loading, got %s", s.State)
	}

	f.release <- struct{}{}
	s, _ = c.Load(context.Background(), ListPosts)
	if s.State != Loaded {
		t.Errorf("expected loaded, got %s", s.State)
	}
}

func TestConcurrentLoadsShareFetch(t *testing.T) {
	c, _ := newClient(t)
	f := newBlockingFetcher(t)
	c.Register(ListPosts, f.fetch)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, _ := c.Load(context.Background(), ListPosts)
			if s.State != Loaded {
				t.Errorf("expected loaded, got %s", s.State)
			}
		}()
	}
	waitFor(t, func() bool { return f.calls.Load() == 1 })
	f.release <- struct{}{}
	wg.Wait()

	if n := f.calls.Load(); n != 1 {
		t.Errorf("expected one fetch, got %d", n)
	}
}

func TestStaleEventTriggersRefetch(t *testing.T) {
	c, bus := newClient(t)
	var calls atomic.Int32
	c.Register(ListPosts, func(ctx context.Context) ([]domain.PostWithAuthor, error) {
		calls.Add(1)
		return posts("p1"), nil
	})
	if _, err := c.Load(context.Background(), ListPosts); err != nil {
		t.Fatal(err)
	}

	updates := make(chan Event, 4)
	cancel := bus.Subscribe(func(e Event) {
		if e.Kind == Updated {
			updates <- e
		}
	})
	defer cancel()

	bus.Publish(Event{Kind: Stale, Key: ListPosts})

	timeout := time.After(2 * time.Second)
	for version := uint64(0); version < 2; {
		select {
		case e := <-updates:
			version = e.Version
		case <-timeout:
			t.Fatal("no update published")
		}
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 fetches, got %d", n)
	}
}

func TestFailedFetchDoesNotPublishUpdate(t *testing.T) {
	c, bus := newClient(t)
	var fetches atomic.Int32
	c.Register(ListPosts, func(ctx context.Context) ([]domain.PostWithAuthor, error) {
		fetches.Add(1)
		return nil, errors.New("unavailable")
	})

	var refreshes atomic.Int32
	cancel := bus.Subscribe(func(e Event) {
		if e.Kind != Updated {
			return
		}
		refreshes.Add(1)
		// What the refresh script does for every update: request the feed again.
		go c.Load(context.Background(), ListPosts)
	})
	defer cancel()

	s, err := c.Load(context.Background(), ListPosts)
	if err != nil {
		t.Fatal(err)
	}
	if s.State != Errored {
		t.Fatalf("expected errored, got %s", s.State)
	}

	time.Sleep(100 * time.Millisecond)
	if n := refreshes.Load(); n != 0 {
		t.Errorf("expected no update after a failed fetch, got %d", n)
	}
	if n := fetches.Load(); n != 1 {
		t.Errorf("expected a single fetch, got %d", n)
	}
}

func TestAwaitKeepsErrored(t *testing.T) {
	c, _ := newClient(t)
	var fetches atomic.Int32
	c.Register(ListPosts, func(ctx context.Context) ([]domain.PostWithAuthor, error) {
		fetches.Add(1)
		return nil, errors.New("unavailable")
	})

	if _, err := c.Load(context.Background(), ListPosts); err != nil {
		t.Fatal(err)
	}
	for range 5 {
		s, err := c.Await(context.Background(), ListPosts)
		if err != nil {
			t.Fatal(err)
		}
		if s.State != Errored {
			t.Errorf("expected errored, got %s", s.State)
		}
	}
	if n := fetches.Load(); n != 1 {
		t.Errorf("expected a single fetch, got %d", n)
	}

	if err := c.Invalidate(ListPosts); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Await(context.Background(), ListPosts); err != nil {
		t.Fatal(err)
	}
	if n := fetches.Load(); n != 2 {
		t.Errorf("expected one refetch after invalidation, got %d fetches", n)
	}
}

func TestAwaitFetchesIdle(t *testing.T) {
	c, _ := newClient(t)
	c.Register(ListPosts, func(ctx context.Context) ([]domain.PostWithAuthor, error) {
		return posts("p1"), nil
	})

	s, err := c.Await(context.Background(), ListPosts)
	if err != nil {
		t.Fatal(err)
	}
	if s.State != Loaded || len(s.Posts) != 1 {
		t.Errorf("expected one loaded post, got %s with %d posts", s.State, len(s.Posts))
	}
}
