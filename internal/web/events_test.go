package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sidereusnuntius/chirp/internal/db"
	"github.com/sidereusnuntius/chirp/internal/feed"
	"go.uber.org/mock/gomock"
)

// streamRecorder is a ResponseWriter that can be read while the handler is still writing to it.
type streamRecorder struct {
	mu      sync.Mutex
	header  http.Header
	code    int
	body    strings.Builder
	flushes chan struct{}
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{
		header:  http.Header{},
		flushes: make(chan struct{}, 64),
	}
}

func (s *streamRecorder) Header() http.Header {
	return s.header
}

func (s *streamRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
}

func (s *streamRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body.Write(b)
}

func (s *streamRecorder) Flush() {
	select {
	case s.flushes <- struct{}{}:
	default:
	}
}

func (s *streamRecorder) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body.String()
}

func (s *streamRecorder) waitFor(t *testing.T, want string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for !strings.Contains(s.String(), want) {
		select {
		case <-s.flushes:
		case <-timeout:
			t.Fatalf("%q not written to the stream:\n%s", want, s.String())
		}
	}
}

// stream runs the event stream handler until the returned cancel function is called.
func (ts *testServer) stream(t *testing.T) (*streamRecorder, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	rec := newStreamRecorder()
	req := httptest.NewRequest(http.MethodGet, FeedPath+"/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		FeedEvents(ts.handler)(rec, req)
		close(done)
	}()
	rec.waitFor(t, ": connected\n\n")

	stop := func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("event stream did not stop after the request was canceled")
		}
	}
	t.Cleanup(cancel)
	return rec, stop
}

func TestFeedEventsForwardsUpdates(t *testing.T) {
	ts := newTestServer(t)
	rec, stop := ts.stream(t)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected an event stream, got %q", ct)
	}

	ts.bus.Publish(feed.Event{Kind: feed.Stale, Key: feed.ListPosts})
	ts.bus.Publish(feed.Event{Kind: feed.Updated, Key: "other", Version: 7})
	ts.bus.Publish(feed.Event{Kind: feed.Updated, Key: feed.ListPosts, Version: 3})
	rec.waitFor(t, "event: updated\nid: 3\ndata: 3\n\n")

	stop()
	if out := rec.String(); strings.Contains(out, "id: 7") {
		t.Errorf("update of another query forwarded:\n%s", out)
	}
}

func TestFeedEventsKeepAlive(t *testing.T) {
	ts := newTestServer(t)
	rec, stop := ts.stream(t)
	rec.waitFor(t, ": ping\n\n")
	stop()
}

func TestFeedEventsStopsOnCancel(t *testing.T) {
	ts := newTestServer(t)
	rec, stop := ts.stream(t)
	stop()

	before := rec.String()
	ts.bus.Publish(feed.Event{Kind: feed.Updated, Key: feed.ListPosts, Version: 1})
	if after := rec.String(); after != before {
		t.Errorf("stream written after cancellation:\n%s", after)
	}
}

func TestFeedFragmentDoesNotRetryFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.service.EXPECT().ListPosts(gomock.Any()).Return(nil, db.ErrInternal).Times(1)

	out := body(t, ts.do(httptest.NewRequest(http.MethodGet, "/", nil)))
	if !strings.Contains(out, "Something went wrong") {
		t.Fatalf("expected the error message in page:\n%s", out)
	}

	for range 3 {
		rec := ts.do(httptest.NewRequest(http.MethodGet, FeedPath, nil))
		if out := body(t, rec); !strings.Contains(out, "Something went wrong") {
			t.Errorf("expected the error message in fragment:\n%s", out)
		}
	}
}
