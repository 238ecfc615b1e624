package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/identitylab/auth-api/internal/api"
	"github.com/identitylab/auth-api/internal/core/service"
	"github.com/identitylab/auth-api/internal/infrastructure/config"
	mongodb "github.com/identitylab/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/identitylab/auth-api/internal/infrastructure/db/redis"
	"github.com/identitylab/auth-api/internal/infrastructure/queue"
	"github.com/identitylab/auth-api/internal/infrastructure/security"
	"github.com/identitylab/auth-api/pkg/logger"
)

// @title        Identity API
// @version      1.0
// @description  Issues and validates bearer tokens for user authentication.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	// Unique indexes back the store's atomicity guarantees; create them
	// before accepting traffic.
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	userRepo := mongodb.NewUserRepository(db, hasher)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// --- Async audit pipeline ---
	auditRepo := mongodb.NewAuditRepository(db)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, service.NewAuditService(auditRepo, log), log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(db, rdb, api.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		BcryptCost:  cfg.BcryptCost,
		MaxAttempts: cfg.LoginMaxAttempts,
		AttemptTTL:  cfg.LoginAttemptWindow,
	}, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity api started")

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	cancel() // stop audit workers after in-flight requests drain
	log.Info().Msg("identity api stopped")
}
