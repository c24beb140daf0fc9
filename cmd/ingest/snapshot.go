package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devanshshrivastava16/TrustSpace/internal/config"
	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/graph"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
)

type snapshot struct {
	users      []domain.User
	properties []domain.Property
	bookings   []domain.Booking
	reviews    []domain.Review
}

func loadSnapshot(ctx context.Context, repos *repository.Repositories) (snapshot, error) {
	var (
		snap snapshot
		err  error
	)
	if snap.users, err = repos.Users.List(ctx); err != nil {
		return snapshot{}, fmt.Errorf("users: %w", err)
	}
	if snap.properties, err = repos.Properties.List(ctx, repository.PropertyFilter{}); err != nil {
		return snapshot{}, fmt.Errorf("properties: %w", err)
	}
	if snap.bookings, err = repos.Bookings.List(ctx, repository.BookingFilter{}); err != nil {
		return snapshot{}, fmt.Errorf("bookings: %w", err)
	}
	if snap.reviews, err = repos.Reviews.List(ctx, repository.ReviewFilter{}); err != nil {
		return snapshot{}, fmt.Errorf("reviews: %w", err)
	}
	return snap, nil
}

func dialGraph(ctx context.Context, logger *slog.Logger, cfg config.GraphConfig) (graph.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion: %w", graph.ErrMissingURI)
	}
	client, err := graph.Dial(ctx, graph.Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.URI, "database", cfg.Database)
	return client, nil
}
