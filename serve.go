package main

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/chirp/internal/compose"
	db "github.com/sidereusnuntius/chirp/internal/db/impl"
	"github.com/sidereusnuntius/chirp/internal/domain"
	"github.com/sidereusnuntius/chirp/internal/feed"
	"github.com/sidereusnuntius/chirp/internal/initialization"
	"github.com/sidereusnuntius/chirp/internal/metrics"
	"github.com/sidereusnuntius/chirp/internal/queue"
	service "github.com/sidereusnuntius/chirp/internal/service/impl"
	"github.com/sidereusnuntius/chirp/internal/web"
	"github.com/spf13/cobra"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply database migrations on start")
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := initialization.OpenDB(cfg.DbUrl)
	if err != nil {
		return err
	}
	defer d.Close()
	log.Info().Msg("database connection established")

	if !skipMigrations {
		if err = initialization.SetupDB(d, cfg.MigrationsFolder, cfg.DbUrl); err != nil {
			return err
		}
	}

	q, err := initialization.InitQueue(&cfg, d)
	if err != nil {
		return fmt.Errorf("unable to set up the task queue: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	dd := db.New(cfg, d)
	queue := queue.New(ctx, dd, &http.Client{Timeout: cfg.AvatarCheckTimeout}, &cfg, q)
	svc := service.New(cfg, dd, queue)

	bus := feed.NewBus()
	feedClient := feed.New(ctx, bus, feed.Options{
		FetchTimeout: cfg.FeedTimeout * 5,
		Metrics:      recorder,
	})
	defer feedClient.Close()
	feedClient.Register(feed.ListPosts, svc.ListPosts)

	gob.Register(domain.SessionUser{})
	manager := scs.NewCookieManager(cfg.SessionKey)
	manager.Lifetime(cfg.SessionLifetime)
	manager.Persist(true)
	manager.Secure(cfg.Https)

	handler := web.New(&cfg, svc, manager, web.Options{
		Feed:    feedClient,
		Bus:     bus,
		Compose: compose.New(svc, bus, recorder),
		Metrics: recorder,
	})
	router := chi.NewRouter()
	handler.Mount(router)
	router.Handle("/metrics", metrics.Handler(reg))

	s := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Uint16("port", cfg.Port).Str("url", cfg.Url.String()).Msg("started server")
		errCh <- s.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
