// Command activity consumes film and friendship events from RabbitMQ and
// appends them to an activity log file.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/filmorate/internal/config"
	"github.com/iliyamo/filmorate/internal/logging"
	"github.com/iliyamo/filmorate/internal/queue"
)

func main() {
	config.LoadDotEnv(".")
	cfg, err := config.Load()
	if err != nil {
		l := logging.New(logging.Config{})
		l.Fatal().Err(err).Msg("config")
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{
		URL:    cfg.Events.URL,
		Queue:  cfg.Events.Queue,
		LogDir: cfg.Events.LogDir,
		Log:    log,
	}
	log.Info().Str("queue", cfg.Events.Queue).Str("dir", cfg.Events.LogDir).Msg("activity consumer starting")
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("activity consumer stopped")
	}
	log.Info().Msg("activity consumer stopped")
}
