package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spit-library/auth-service/internal/api"
	"github.com/spit-library/auth-service/internal/core/service"
	"github.com/spit-library/auth-service/internal/infrastructure/db/mongo"
	"github.com/spit-library/auth-service/internal/infrastructure/db/redis"
	"github.com/spit-library/auth-service/internal/infrastructure/identity"
	"github.com/spit-library/auth-service/internal/infrastructure/notify"
	"github.com/spit-library/auth-service/internal/infrastructure/queue"
	"github.com/spit-library/auth-service/internal/pkg/config"
	"github.com/spit-library/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Collaborators ---
	profiles := redis.NewCachedProfileRepository(mongo.NewProfileRepository(db), rdb, log)
	provider := identity.NewClient(identity.Config{
		APIKey:  cfg.Identity.APIKey,
		BaseURL: cfg.Identity.BaseURL,
	}, log)

	dispatcher := queue.NewLoginEventDispatcher(cfg.LoginEventWorkers, profiles, log)
	dispatcher.Start(ctx)

	submissions := service.NewSubmissionService(provider, profiles, dispatcher, notify.NewLogNotifier(log), log)

	// --- HTTP ---
	e := api.NewRouter(submissions, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
