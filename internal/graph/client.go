// Package graph talks to the Neo4j mirror of the marketplace.
package graph

import (
	"context"
	"errors"
)

// Client runs cypher statements against a graph database.
type Client interface {
	Write(ctx context.Context, cypher string, params map[string]any) error
	Read(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Record is one row of a read, keyed by the RETURN aliases.
type Record map[string]any

// Options configures a Bolt connection.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
