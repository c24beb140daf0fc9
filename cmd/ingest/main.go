package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/config"
	"github.com/devanshshrivastava16/TrustSpace/internal/graphsync"
	"github.com/devanshshrivastava16/TrustSpace/internal/logging"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		dataDir = flag.String("data-dir", cfg.Store.DataDir, "directory holding the collection files")
		workers = flag.Int("workers", 4, "number of concurrent graph writers")
	)
	flag.Parse()

	logger := logging.New(cfg.Logging).With("component", "ingest")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repos := repository.Open(repository.Options{
		DataDir: *dataDir,
		Retry:   store.RetryPolicy{Attempts: cfg.Store.WriteAttempts, Delay: cfg.Store.RetryDelay},
		Logger:  logger,
	})
	snap, err := loadSnapshot(ctx, repos)
	if err != nil {
		logger.Error("failed to read store", "error", err, "data_dir", *dataDir)
		os.Exit(1)
	}

	client, err := dialGraph(ctx, logger, cfg.Graph)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	projector := graphsync.New(client)
	if err := projector.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	ingestor := service.NewBulkIngestor(projector, *workers)

	start := time.Now()
	steps := []struct {
		name  string
		count int
		run   func() error
	}{
		{"users", len(snap.users), func() error { return ingestor.IngestUsers(ctx, snap.users) }},
		{"properties", len(snap.properties), func() error { return ingestor.IngestProperties(ctx, snap.properties) }},
		{"bookings", len(snap.bookings), func() error { return ingestor.IngestBookings(ctx, snap.bookings) }},
		{"reviews", len(snap.reviews), func() error { return ingestor.IngestReviews(ctx, snap.reviews) }},
	}
	for _, step := range steps {
		logger.Info("ingesting "+step.name, "count", step.count, "workers", *workers)
		if err := step.run(); err != nil {
			logger.Error(step.name+" ingestion failed", "error", err)
			os.Exit(1)
		}
	}

	counts, err := projector.Count(ctx)
	if err != nil {
		logger.Warn("could not read graph totals", "error", err)
	}
	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"users", counts.Users,
		"properties", counts.Properties,
		"bookings", counts.Bookings,
		"reviews", counts.Reviews,
	)
}
