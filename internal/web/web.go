package web

import (
	"time"

	"github.com/alexedwards/scs"
	"github.com/sidereusnuntius/chirp/internal/compose"
	"github.com/sidereusnuntius/chirp/internal/config"
	"github.com/sidereusnuntius/chirp/internal/feed"
	"github.com/sidereusnuntius/chirp/internal/metrics"
	"github.com/sidereusnuntius/chirp/internal/service"
)

const (
	LoginRoute  = "/login"
	SignUpRoute = "/signup"
	LogoutRoute = "/logout"
	PostsPath   = "/posts"
	FeedPath    = "/feed"

	DefaultKeepAlive = 30 * time.Second
)

type Handler struct {
	Config         *config.Configuration
	service        service.Service
	SessionManager *scs.Manager
	feed           *feed.Client
	bus            *feed.Bus
	compose        *compose.Unit
	metrics        metrics.Recorder
	keepAlive      time.Duration
}

type Options struct {
	Feed    *feed.Client
	Bus     *feed.Bus
	Compose *compose.Unit
	Metrics metrics.Recorder
	// KeepAlive is the interval between comments sent on idle event streams.
	KeepAlive time.Duration
}

func New(config *config.Configuration, service service.Service, manager *scs.Manager, opts Options) Handler {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = DefaultKeepAlive
	}
	return Handler{
		Config:         config,
		service:        service,
		SessionManager: manager,
		feed:           opts.Feed,
		bus:            opts.Bus,
		compose:        opts.Compose,
		metrics:        opts.Metrics,
		keepAlive:      opts.KeepAlive,
	}
}
