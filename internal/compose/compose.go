// Package compose handles the compose box of signed-in users.
package compose

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/domain"
	"github.com/sidereusnuntius/chirp/internal/feed"
	"github.com/sidereusnuntius/chirp/internal/metrics"
	"github.com/sidereusnuntius/chirp/internal/service"
)

var (
	ErrInFlight = errors.New("a post is already being submitted")
	ErrNoUser   = errors.New("no signed-in user")
)

// Creator is the remote create operation.
type Creator interface {
	CreatePost(ctx context.Context, userId int64, content string) (domain.Post, error)
}

type Result struct {
	// Draft is what the input should hold after the submission: empty on
	// success, the submitted text otherwise.
	Draft string
	Post  domain.Post
}

// View is what the compose box template renders.
type View struct {
	User     domain.SessionUser
	Draft    string
	Disabled bool
	Error    string
}

type Unit struct {
	creator  Creator
	bus      *feed.Bus
	metrics  metrics.Recorder
	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func New(creator Creator, bus *feed.Bus, recorder metrics.Recorder) *Unit {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Unit{
		creator:  creator,
		bus:      bus,
		metrics:  recorder,
		inFlight: make(map[int64]struct{}),
	}
}

// Submit creates a post with draft as its content. Only one submission per
// user may be outstanding; a concurrent one fails with ErrInFlight. On
// success the posts list is marked stale exactly once.
func (u *Unit) Submit(ctx context.Context, user *domain.SessionUser, draft string) (Result, error) {
	if user == nil {
		return Result{Draft: draft}, ErrNoUser
	}
	if !u.acquire(user.ID) {
		return Result{Draft: draft}, ErrInFlight
	}
	defer u.release(user.ID)

	post, err := u.creator.CreatePost(ctx, user.ID, draft)
	if err != nil {
		reason := "error"
		if errors.Is(err, service.ErrInvalidInput) {
			reason = "invalid"
		}
		u.metrics.RecordPostFailed(reason)
		log.Error().Err(err).Int64("user", user.ID).Msg("failed to create post")
		return Result{Draft: draft}, err
	}

	u.metrics.RecordPostCreated()
	u.bus.Publish(feed.Event{Kind: feed.Stale, Key: feed.ListPosts})
	return Result{Post: post}, nil
}

func (u *Unit) InFlight(userID int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.inFlight[userID]
	return ok
}

// View returns the compose box for user, or nil when nobody is signed in.
func (u *Unit) View(user *domain.SessionUser, draft, message string) *View {
	if user == nil {
		return nil
	}
	log.Debug().Int64("user", user.ID).Msg("rendering compose box")
	return &View{
		User:     *user,
		Draft:    draft,
		Disabled: u.InFlight(user.ID),
		Error:    message,
	}
}

func (u *Unit) acquire(userID int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.inFlight[userID]; ok {
		return false
	}
	u.inFlight[userID] = struct{}{}
	return true
}

func (u *Unit) release(userID int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inFlight, userID)
}
