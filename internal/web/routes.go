package web

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Mount(r chi.Router) {
	authenticated := AuthenticatedMiddleware(h)
	r.Use(middleware.Recoverer)
	r.Use(SessionMiddleware(h))
	r.Use(RequestLogger(h.metrics))

	r.Get("/", Home(h))
	r.Get(LoginRoute, GetLogin(h))
	r.Post(LoginRoute, Login(h))
	r.Get(SignUpRoute, GetSignup(h))
	r.Post(SignUpRoute, SignUp(h))
	r.Get(LogoutRoute, Logout(h))

	r.With(authenticated).Post(PostsPath, CreatePost(h))
	r.Get("/post/{id}", GetPost(h))
	r.Get("/@{name}", Profile(h))

	r.Route(FeedPath, func(r chi.Router) {
		r.Get("/", FeedFragment(h))
		r.Get("/events", FeedEvents(h))
	})

	h.MountStaticRoutes(r)
}

func (h *Handler) MountStaticRoutes(r chi.Router) {
	wd, _ := os.Getwd()
	dir := h.Config.StaticDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(wd, dir)
	}
	f := os.DirFS(dir)

	fileServer := http.FileServer(http.FS(f))
	r.Handle("/static/{name}", http.StripPrefix(
		"/static/",
		fileServer,
	))
}
