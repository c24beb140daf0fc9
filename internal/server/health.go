package server

import (
	"context"
	"fmt"
	"os"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// StoreHealth reports whether the data directory is reachable.
type StoreHealth struct {
	DataDir string
}

// Probe implements the HealthService interface.
func (s StoreHealth) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.DataDir)
	}
	return nil
}
