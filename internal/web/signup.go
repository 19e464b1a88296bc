package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/db"
	"github.com/sidereusnuntius/chirp/internal/service"
	"github.com/sidereusnuntius/chirp/templates"
)

func SignUp(s *Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			s.renderSignup(ctx, w, templates.SignUpData{Error: "failed to parse form body"})
			return
		}

		form := templates.SignUpData{
			Username:     r.Form.Get("username"),
			Email:        r.Form.Get("email"),
			ProfileImage: r.Form.Get("profile_image"),
		}
		password := r.Form.Get("password")

		account, err := s.service.CreateUser(ctx, form.Username, password, form.Email, form.ProfileImage)
		if err != nil {
			code := GetCode(err)
			switch code {
			case http.StatusConflict:
				form.Error = "That username or email is already taken."
			case http.StatusBadRequest:
				form.Error = userMessage(err)
			default:
				log.Error().Err(err).Str("username", form.Username).Msg("failed to create user")
				form.Error = "Something went wrong, try again."
			}
			w.WriteHeader(code)
			s.renderSignup(ctx, w, form)
			return
		}

		if err = s.startSession(w, r, account); err != nil {
			log.Error().Err(err).Int64("user", account.UserID).Msg("failed to create session")
			http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

func (h *Handler) renderSignup(ctx context.Context, w http.ResponseWriter, form templates.SignUpData) {
	form.Action = SignUpRoute
	h.render(ctx, w, "Sign up", false, templates.SignUp(form))
}

func GetSignup(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler.renderSignup(r.Context(), w, templates.SignUpData{})
	}
}

func GetCode(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
