// Command notifeed serves a notification feed over HTTP, fed by a simulated
// generator or a Redis pub/sub channel.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/notifeed/pkg/config"
	"github.com/dmitrymomot/notifeed/pkg/logger"
	"github.com/dmitrymomot/notifeed/pkg/requestid"
)

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
			opts = append(opts, logger.WithLevel(level))
		}
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	if err := start(ctx, cfg, log); err != nil {
		log.Error("notifeed stopped", logger.Error(err))
		code = 1
	}
	stop()
	os.Exit(code)
}

func start(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "notifeed starting",
		slog.String("channel", cfg.Channel),
		slog.Bool("seed", cfg.Seed),
	)
	return a.run(ctx)
}
