package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/devanshshrivastava16/TrustSpace/internal/auth"
	"github.com/devanshshrivastava16/TrustSpace/internal/config"
	"github.com/devanshshrivastava16/TrustSpace/internal/events"
	"github.com/devanshshrivastava16/TrustSpace/internal/ledger"
	"github.com/devanshshrivastava16/TrustSpace/internal/logging"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
	"github.com/devanshshrivastava16/TrustSpace/internal/server"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

func main() {
	os.Exit(run())
}

// run serves until SIGINT or SIGTERM and returns the process exit code.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger := logging.New(cfg.Logging)
	if cfg.Auth.SecretFallback {
		logger.Warn("JWT_SECRET_KEY not set, using the built-in development secret")
	}

	repos := repository.Open(repository.Options{
		DataDir: cfg.Store.DataDir,
		Retry:   store.RetryPolicy{Attempts: cfg.Store.WriteAttempts, Delay: cfg.Store.RetryDelay},
		Logger:  logger,
	})
	if err := repos.EnsureAll(context.Background()); err != nil {
		logger.Error("failed to prepare data directory", "data_dir", cfg.Store.DataDir, "error", err)
		return 1
	}

	hasher, err := auth.NewHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		logger.Error("invalid password hasher", "error", err)
		return 1
	}
	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	chain := ledger.NewMemory(cfg.Ledger.StartingBalance)

	publisher := buildPublisher(logger, cfg.Events)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("closing event publisher failed", "error", err)
		}
	}()

	cache := service.NewListingCache(cfg.Cache.ListingMaxSize, cfg.Cache.ListingTTL)
	defer cache.Stop()

	properties := service.NewPropertyService(repos.Properties, repos.Users, cache, publisher, logger)
	api := server.NewAPI(logger, server.Services{
		Auth:         service.NewAuthService(repos.Users, hasher, tokens, chain, repos.DocumentsDir(), logger),
		Properties:   properties,
		Bookings:     service.NewBookingService(repos.Bookings, repos.Properties, repos.Users, publisher, logger),
		Reviews:      service.NewReviewService(repos.Reviews, repos.Properties, repos.Bookings, logger),
		Payments:     service.NewPaymentService(chain, repos.Users, properties, repos.Bookings, repos.Reviews, publisher, logger),
		Verification: service.NewVerificationTracker(repos.Sessions, properties, nil, repos.ImagesDir(), publisher, logger),
	})

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealth{DataDir: repos.DataDir},
		API:              api,
		AllowedOrigins:   server.ParseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.New(logger, cfg.HTTP, router).Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		return 1
	}
	logger.Info("server stopped")
	return 0
}

// buildPublisher connects to RabbitMQ when configured. Events are best
// effort, so a broker that cannot be reached degrades to no events.
func buildPublisher(logger *slog.Logger, cfg config.EventsConfig) events.Publisher {
	if cfg.RabbitMQURL == "" {
		return events.Nop{}
	}
	pub, err := events.DialRabbitMQ(cfg.RabbitMQURL, cfg.Queue, logger)
	if err != nil {
		logger.Warn("event publisher unavailable, continuing without events", "error", err)
		return events.Nop{}
	}
	return pub
}
