package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/domain"
	"github.com/sidereusnuntius/chirp/internal/feed"
	"github.com/sidereusnuntius/chirp/internal/service"
	"github.com/sidereusnuntius/chirp/templates"
)

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, title string, live bool, child templ.Component) {
	err := templates.Layout(templates.PageData{
		SiteName:    h.Config.Name,
		PageTitle:   title,
		Description: h.Config.Description,
		Favicon:     h.Config.Favicon,
		Live:        live,
		Child:       child,
	}).Render(ctx, w)
	if err != nil {
		log.Error().Err(err).Str("page", title).Msg("failed to render page")
	}
}

// loadFeed waits up to FeedTimeout for the posts list to settle. A page view retries a failed list once; the
// fragment requested by the refresh script does not.
func (h *Handler) loadFeed(ctx context.Context, pageView bool) templates.FeedData {
	load := h.feed.Await
	if pageView {
		load = h.feed.Load
	}

	ctx, cancel := context.WithTimeout(ctx, h.Config.FeedTimeout)
	defer cancel()

	data := templates.FeedData{Now: time.Now()}
	snap, err := load(ctx, feed.ListPosts)
	if err != nil {
		log.Error().Err(err).Msg("failed to load feed")
		return data
	}

	switch snap.State {
	case feed.Idle, feed.Loading:
		data.Loading = true
	case feed.Loaded:
		data.Posts = snap.Posts
	}
	return data
}

// renderHome renders the landing page. draft and msg fill the compose box after a failed submission.
func (h *Handler) renderHome(ctx context.Context, w http.ResponseWriter, draft, msg string) {
	state := GetSession(ctx)
	aff := Resolve(state)
	feedData := h.loadFeed(ctx, true)

	if aff.Placeholder {
		h.render(ctx, w, "", false, templates.Placeholder())
		return
	}

	gate := templates.GateData{SignIn: aff.SignIn, SignOut: aff.SignOut}
	if aff.Compose {
		if v := h.compose.View(state.User, draft, msg); v != nil {
			gate.Compose = templates.Compose(*v)
		}
	}
	h.render(ctx, w, "", true, templates.Home(templates.Gate(gate), templates.Feed(feedData)))
}

func Home(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderHome(r.Context(), w, "", "")
	}
}

// userMessage strips the error kind from validation errors.
func userMessage(err error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, service.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return "Invalid input."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func signedInUser(ctx context.Context) *domain.SessionUser {
	s := GetSession(ctx)
	if !s.SignedIn {
		return nil
	}
	return s.User
}
