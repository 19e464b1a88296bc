package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sidereusnuntius/chirp/templates"
)

func (h *Handler) profile(ctx context.Context, w http.ResponseWriter, name string) error {
	a, err := h.service.GetAuthor(ctx, name)
	if err != nil {
		return err
	}

	posts, err := h.service.ListPostsByAuthor(ctx, a.Username)
	if err != nil {
		return err
	}

	h.render(ctx, w, "@"+a.Username, false, templates.Profile(a, posts, time.Now()))
	return nil
}

func Profile(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := h.profile(r.Context(), w, name); err != nil {
			h.renderError(w, r, err)
		}
	}
}
