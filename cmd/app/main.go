package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"garage-manager/internal/adapters/cli"
	"garage-manager/internal/app"
	"garage-manager/internal/config"
	"garage-manager/internal/core"
	"garage-manager/internal/db"
	"garage-manager/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	// The CLI is one-shot, so it reads reports straight from the database.
	svc := app.NewAppService(parallelSnapshots{store.New(pool)}, nil, logger)

	printer := cli.Printer{Out: os.Stdout, Currency: cfg.CurrencySymbol}
	if err := cli.Run(ctx, svc, printer, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			pool.Close()
			os.Exit(2)
		}
		pool.Close()
		log.Fatalf("%v", err)
	}
}

// parallelSnapshots loads report snapshots over several connections. A
// one-shot report does not need the single-transaction consistency the
// server uses.
type parallelSnapshots struct {
	*store.Store
}

func (p parallelSnapshots) LoadSnapshot(ctx context.Context) (*core.Snapshot, error) {
	return p.LoadSnapshotParallel(ctx)
}
