package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/domain"
	"github.com/sidereusnuntius/chirp/internal/service"
	"github.com/sidereusnuntius/chirp/templates"
)

const SessionKey = "user"

type key struct{}

// GetSession returns the session state stored by SessionMiddleware. Outside of it the state is not loaded.
func GetSession(ctx context.Context) domain.SessionState {
	s, _ := ctx.Value(key{}).(domain.SessionState)
	return s
}

func WithSession(ctx context.Context, s domain.SessionState) context.Context {
	return context.WithValue(ctx, key{}, s)
}

func AuthenticatedMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSession(r.Context()).SignedIn {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, LoginRoute+"?prev="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
		})
	}
}

// SessionMiddleware reads the signed-in user from the session cookie. A session that can't be decoded is
// discarded and the viewer treated as signed out; the state is only left unloaded if even that fails.
func SessionMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := domain.SessionState{Loaded: true}
			session := handler.SessionManager.Load(r)

			var u domain.SessionUser
			err := session.GetObject(SessionKey, &u)
			switch {
			case err != nil:
				log.Warn().Err(err).Msg("discarding unreadable session")
				if err = session.Destroy(w); err != nil {
					log.Error().Err(err).Msg("session store unavailable")
					state.Loaded = false
				}
			case u.ID != 0:
				state.SignedIn = true
				state.User = &u
			}

			h.ServeHTTP(w, r.WithContext(WithSession(r.Context(), state)))
		})
	}
}

func Logout(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := handler.SessionManager.Load(r)
		if err := s.Destroy(w); err != nil {
			log.Error().Err(err).Msg("failed to destroy session")
		}
		http.Redirect(w, r, safeRedirect(r.URL.Query().Get("prev")), http.StatusSeeOther)
	}
}

func Login(handler *Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			handler.renderLogin(ctx, w, "", "", "failed to parse form body")
			return
		}

		prev := r.Form.Get("prev")
		user := r.Form.Get("user")
		password := r.Form.Get("password")
		u, authenticated, err := handler.service.AuthenticateUser(ctx, user, password)
		if errors.Is(err, service.ErrInvalidInput) {
			authenticated, err = false, nil
		}
		if err != nil {
			log.Error().Err(err).Msg("authentication failed")
			w.WriteHeader(http.StatusInternalServerError)
			handler.renderLogin(ctx, w, prev, user, "Something went wrong, try again.")
			return
		}

		if !authenticated {
			w.WriteHeader(http.StatusUnauthorized)
			handler.renderLogin(ctx, w, prev, user, "Wrong username or password.")
			return
		}

		if err = handler.startSession(w, r, u); err != nil {
			log.Error().Err(err).Int64("user", u.UserID).Msg("failed to create session")
			w.WriteHeader(http.StatusInternalServerError)
			handler.renderLogin(ctx, w, prev, user, "failed to create and load session")
			return
		}
		http.Redirect(w, r, safeRedirect(prev), http.StatusSeeOther)
	})
}

func GetLogin(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler.renderLogin(r.Context(), w, r.URL.Query().Get("prev"), "", "")
	}
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u domain.Account) error {
	session := h.SessionManager.Load(r)
	return session.PutObject(w, SessionKey, domain.SessionUser{
		ID:              u.UserID,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	})
}

func (h *Handler) renderLogin(ctx context.Context, w http.ResponseWriter, prev, user, msg string) {
	action := LoginRoute
	if prev != "" {
		action += "?prev=" + url.QueryEscape(prev)
	}
	h.render(ctx, w, "Sign in", false, templates.Login(action, user, msg))
}

// safeRedirect only allows local paths.
func safeRedirect(prev string) string {
	if !strings.HasPrefix(prev, "/") || strings.HasPrefix(prev, "//") || strings.Contains(prev, "\\") {
		return "/"
	}
	return prev
}
