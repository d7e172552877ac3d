// Command notifier consumes contact submissions from RabbitMQ and appends
// them to a log file.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/contact-desk/internal/config"
	"github.com/iliyamo/contact-desk/internal/logging"
	"github.com/iliyamo/contact-desk/internal/queue"
)

func main() {
	cfg, err := config.LoadNotifier()
	log := logging.New(cfg.Env)
	if err != nil {
		log.Error("config", logging.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("notifier started", slog.String("queue", cfg.RabbitMQ.ContactQueue), slog.String("file", cfg.LogFile))

	err = queue.StartContactConsumer(ctx, queue.ConsumerConfig{
		URL:     cfg.RabbitMQ.URL,
		Queue:   cfg.RabbitMQ.ContactQueue,
		LogFile: cfg.LogFile,
	}, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", logging.Err(err))
		os.Exit(1)
	}
	log.Info("notifier stopped")
}
