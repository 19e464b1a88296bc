package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/compose"
	"github.com/sidereusnuntius/chirp/internal/feed"
	"github.com/sidereusnuntius/chirp/internal/service"
	"github.com/sidereusnuntius/chirp/templates"
)

// CreatePost submits the compose box. On success the browser is sent back to the landing page, whose feed
// now includes the new post; on failure the page is rendered again with the draft kept.
func CreatePost(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			h.renderHome(ctx, w, "", "failed to parse form body")
			return
		}
		content := r.Form.Get("content")

		res, err := h.compose.Submit(ctx, signedInUser(ctx), content)
		if err != nil {
			var (
				code int
				msg  string
			)
			switch {
			case errors.Is(err, compose.ErrNoUser):
				http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
				return
			case errors.Is(err, compose.ErrInFlight):
				code, msg = http.StatusConflict, "Your previous post is still being sent."
			case errors.Is(err, service.ErrInvalidInput):
				code, msg = http.StatusBadRequest, userMessage(err)
			default:
				code, msg = GetCode(err), "Failed to post, try again."
			}
			w.WriteHeader(code)
			h.renderHome(ctx, w, res.Draft, msg)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// FeedFragment renders the feed alone, for the script that refreshes it.
func FeedFragment(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if err := templates.Feed(h.loadFeed(r.Context(), false)).Render(r.Context(), w); err != nil {
			log.Error().Err(err).Msg("failed to render feed")
		}
	}
}

// FeedEvents streams a server-sent event every time the posts list is refetched.
func FeedEvents(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		updates, cancel := h.bus.Notify(feed.Updated, feed.ListPosts)
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		keepAlive := time.NewTicker(h.keepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case e := <-updates:
				fmt.Fprintf(w, "event: updated\nid: %d\ndata: %d\n\n", e.Version, e.Version)
				flusher.Flush()
			case <-keepAlive.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

func GetPost(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")

		p, err := h.service.GetPost(ctx, id)
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		h.render(ctx, w, "@"+p.Author.Username, false, templates.PostPage(p, time.Now()))
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := GetCode(err)
	text := "Something went wrong."
	switch code {
	case http.StatusNotFound:
		text = "There is nothing here."
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	default:
		text = userMessage(err)
	}
	w.WriteHeader(code)
	h.render(r.Context(), w, http.StatusText(code), false, templates.Message(http.StatusText(code), text))
}
