package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/contact-desk/internal/config"
	"github.com/iliyamo/contact-desk/internal/database"
	"github.com/iliyamo/contact-desk/internal/logging"
	"github.com/iliyamo/contact-desk/internal/repository"
	"github.com/iliyamo/contact-desk/internal/router"
	"github.com/iliyamo/contact-desk/internal/service"
	"github.com/iliyamo/contact-desk/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", logging.Err(err))
		os.Exit(1)
	}
	log := logging.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenAndMigrate(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("database", slog.String("driver", cfg.DBDriver), logging.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		log.Info("message cache enabled", slog.String("redis", cfg.Redis.Addr))
	}
	messages := repository.NewCachedMessageRepo(repository.NewMessageRepo(db), rdb, cfg.Cache, log)

	deps := router.Deps{
		Log:        log,
		DB:         db,
		Users:      repository.NewUserRepo(db),
		Messages:   messages,
		Tokens:     utils.NewTokenService(cfg.JWTSecret, cfg.AccessTTL()),
		BcryptCost: cfg.BcryptCost,
	}
	if cfg.RabbitMQ.Enabled() {
		deps.Events = service.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.ContactQueue, cfg.RabbitMQ.DialTimeout, log)
		log.Info("contact notifications enabled", slog.String("queue", cfg.RabbitMQ.ContactQueue))
	}

	e, err := router.New(deps)
	if err != nil {
		log.Error("router", logging.Err(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info("listening", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", logging.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", logging.Err(err))
	}
}
