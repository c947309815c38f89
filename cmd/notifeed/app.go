package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notifeed/pkg/httpserver"
	"github.com/dmitrymomot/notifeed/pkg/logger"
	"github.com/dmitrymomot/notifeed/pkg/notifications"
	"github.com/dmitrymomot/notifeed/pkg/notifications/api"
	"github.com/dmitrymomot/notifeed/pkg/notifications/redischannel"
	"github.com/dmitrymomot/notifeed/pkg/notifications/simulated"
	"github.com/dmitrymomot/notifeed/pkg/redis"
	"github.com/dmitrymomot/notifeed/pkg/requestid"
)

var (
	errUnknownChannel = errors.New("unknown FEED_CHANNEL")
	errDisconnected   = errors.New("delivery channel disconnected")
)

type app struct {
	cfg      appConfig
	log      *slog.Logger
	location *time.Location

	store    *notifications.Store
	ingestor *notifications.Ingestor
	channel  notifications.DeliveryChannel
	server   *httpserver.Server

	checks  []httpserver.Check
	closers []func() error
}

func newApp(ctx context.Context, cfg appConfig, log *slog.Logger) (*app, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load FEED_TIMEZONE: %w", err)
	}

	a := &app{cfg: cfg, log: log, location: loc}

	a.store = notifications.NewStore(notifications.WithStoreLogger(log))
	a.closers = append(a.closers, a.store.Close)

	a.ingestor = notifications.NewIngestor(a.store, notifications.WithIngestorLogger(log))
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StopTimeout)
		defer cancel()
		return a.ingestor.Close(ctx)
	})

	if cfg.Seed {
		for _, n := range simulated.Seed(time.Now()) {
			a.store.Upsert(n)
		}
	}

	switch cfg.Channel {
	case channelSimulated:
		a.channel = simulated.New(cfg.Simulated, simulated.WithLogger(log))
	case channelRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.checks = append(a.checks, redis.Healthcheck(client))
		a.channel = redischannel.New(client, cfg.RedisChannel, redischannel.WithLogger(log))
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownChannel, cfg.Channel)
	}

	a.checks = append(a.checks, func(context.Context) error {
		if !a.ingestor.Connected() {
			return errDisconnected
		}
		return nil
	})

	a.server = httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return a, nil
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware())
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.log, a.checks...))

	api.New(a.store, a.ingestor,
		api.WithLogger(a.log),
		api.WithLocation(a.location),
	).Register(r)

	return r
}

// run blocks until ctx is cancelled or a component fails, then shuts
// everything down.
func (a *app) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(a.ingestor.Run(ctx, a.channel, a.cfg.StopTimeout))
	g.Go(func() error {
		return a.server.Run(ctx, a.router())
	})

	err := g.Wait()
	return errors.Join(err, a.close())
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		a.log.Error("shutdown", logger.Errors(errs...))
	}
	return errors.Join(errs...)
}
