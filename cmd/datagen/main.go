package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/config"
	"github.com/devanshshrivastava16/TrustSpace/internal/generator"
	"github.com/devanshshrivastava16/TrustSpace/internal/logging"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	def := generator.DefaultConfig()
	var (
		count       = flag.Int("count", def.Count, "number of listings to generate")
		seed        = flag.Int64("seed", def.Seed, "random seed for deterministic generation")
		owner       = flag.String("owner", def.OwnerID, "owner id assigned to every listing")
		dataDir     = flag.String("data-dir", cfg.Store.DataDir, "directory holding the collection files")
		writeStdout = flag.Bool("stdout", false, "print the listings instead of writing properties.json")
		force       = flag.Bool("force", false, "replace existing listings")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gen := generator.New(generator.Config{
		Count:   *count,
		Seed:    *seed,
		OwnerID: *owner,
		Force:   *force,
	})

	if *writeStdout {
		props, err := gen.Generate(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
			os.Exit(1)
		}
		if err := generator.Encode(os.Stdout, props); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write listings to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	repos := repository.Open(repository.Options{
		DataDir: *dataDir,
		Retry:   store.RetryPolicy{Attempts: cfg.Store.WriteAttempts, Delay: cfg.Store.RetryDelay},
		Logger:  logging.New(cfg.Logging),
	})
	props, err := gen.Seed(ctx, repos)
	if errors.Is(err, generator.ErrAlreadySeeded) {
		fmt.Fprintf(os.Stderr, "%v in %s; rerun with -force to replace them\n", err, *dataDir)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed listings: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d listings into %s\n", len(props), *dataDir)
}
