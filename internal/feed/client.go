// Package feed caches query results for the landing page and refetches them
// when they are invalidated.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/gruf/go-mutexes"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/domain"
	"github.com/sidereusnuntius/chirp/internal/metrics"
)

// ListPosts is the key of the query backing the landing page feed.
const ListPosts = "posts.list"

var (
	ErrUnknownQuery = errors.New("unknown query")
	// ErrNoData is recorded when a fetch succeeds without returning a list.
	ErrNoData = errors.New("query returned no data")
)

type State uint8

const (
	Idle State = iota
	Loading
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

type Fetcher func(ctx context.Context) ([]domain.PostWithAuthor, error)

// Snapshot is a copy of a cache entry at one point in time. Posts is non-nil
// only in the Loaded state.
type Snapshot struct {
	Key       string
	State     State
	Posts     []domain.PostWithAuthor
	Err       error
	Version   uint64
	FetchedAt time.Time
}

type entry struct {
	fetch     Fetcher
	state     State
	posts     []domain.PostWithAuthor
	err       error
	version   uint64
	fetchedAt time.Time
	// done is closed when the fetch in flight completes.
	done  chan struct{}
	rerun bool
}

type Options struct {
	// FetchTimeout bounds a single fetch. Zero means no bound.
	FetchTimeout time.Duration
	Metrics      metrics.Recorder
}

type Client struct {
	ctx     context.Context
	bus     *Bus
	opts    Options
	locks   *mutexes.MutexMap
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
	cancel  func()
}

// New creates a Client that invalidates its entries whenever a Stale event
// is published on bus. Fetches run under ctx, not under the context of the
// request that triggered them.
func New(ctx context.Context, bus *Bus, opts Options) *Client {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	locks := mutexes.MutexMap{}
	c := &Client{
		ctx:     ctx,
		bus:     bus,
		opts:    opts,
		locks:   &locks,
		entries: make(map[string]*entry),
		now:     time.Now,
	}

	c.cancel = bus.Subscribe(func(e Event) {
		if e.Kind != Stale {
			return
		}
		if err := c.Invalidate(e.Key); err != nil {
			log.Warn().Err(err).Str("query", e.Key).Msg("stale event for unregistered query")
		}
	})
	return c
}

// Register adds a query. Registering a key twice replaces its fetcher and
// resets the entry.
func (c *Client) Register(key string, fetch Fetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{fetch: fetch}
}

// Close stops listening for Stale events.
func (c *Client) Close() {
	c.cancel()
}

func (c *Client) entry(key string) (*entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, key)
	}
	return e, nil
}

// Load returns the entry for key once it has settled. An idle entry is
// fetched, and so is an errored one, once. If ctx is done first, the
// returned snapshot is in the Loading state.
func (c *Client) Load(ctx context.Context, key string) (Snapshot, error) {
	return c.load(ctx, key, true)
}

// Await is Load without the retry of an errored entry. An errored entry
// stays errored until it is invalidated.
func (c *Client) Await(ctx context.Context, key string) (Snapshot, error) {
	return c.load(ctx, key, false)
}

func (c *Client) load(ctx context.Context, key string, retry bool) (Snapshot, error) {
	e, err := c.entry(key)
	if err != nil {
		return Snapshot{}, err
	}

	for {
		unlock := c.locks.Lock(key)
		if e.state == Idle || (retry && e.state == Errored) {
			c.start(key, e)
		}
		retry = false

		if e.state != Loading {
			s := e.snapshot(key)
			unlock()
			return s, nil
		}
		done := e.done
		unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return c.Peek(key), nil
		}
	}
}

// Peek returns the entry without fetching or waiting.
func (c *Client) Peek(key string) Snapshot {
	e, err := c.entry(key)
	if err != nil {
		return Snapshot{Key: key, Err: err}
	}
	unlock := c.locks.Lock(key)
	defer unlock()
	return e.snapshot(key)
}

// Invalidate marks the entry for key as stale and refetches it. While a
// fetch is in flight, any number of invalidations result in a single
// follow-up fetch.
func (c *Client) Invalidate(key string) error {
	e, err := c.entry(key)
	if err != nil {
		return err
	}
	c.opts.Metrics.RecordInvalidation(key)

	unlock := c.locks.Lock(key)
	defer unlock()
	if e.state == Loading {
		e.rerun = true
		return nil
	}
	c.start(key, e)
	return nil
}

// start must be called with the key locked.
func (c *Client) start(key string, e *entry) {
	e.state = Loading
	e.posts = nil
	e.err = nil
	e.done = make(chan struct{})
	go c.run(key, e, e.done)
}

func (c *Client) run(key string, e *entry, done chan struct{}) {
	ctx := c.ctx
	if c.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.FetchTimeout)
		defer cancel()
	}

	begin := c.now()
	posts, err := e.fetch(ctx)
	if err == nil && posts == nil {
		err = ErrNoData
	}
	c.opts.Metrics.RecordFeedFetch(key, err, c.now().Sub(begin))

	unlock := c.locks.Lock(key)
	e.version++
	e.fetchedAt = c.now()
	if err != nil {
		log.Error().Err(err).Str("query", key).Msg("fetch failed")
		e.state = Errored
		e.posts = nil
		e.err = err
	} else {
		e.state = Loaded
		e.posts = posts
	}
	close(done)

	rerun := e.rerun
	e.rerun = false
	if rerun {
		c.start(key, e)
	}
	version := e.version
	unlock()

	if !rerun && err == nil {
		c.bus.Publish(Event{Kind: Updated, Key: key, Version: version})
	}
}

func (e *entry) snapshot(key string) Snapshot {
	return Snapshot{
		Key:       key,
		State:     e.state,
		Posts:     e.posts,
		Err:       e.err,
		Version:   e.version,
		FetchedAt: e.fetchedAt,
	}
}
