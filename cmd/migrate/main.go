package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"garage-manager/internal/config"
	"garage-manager/internal/db"
	"garage-manager/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool, logger); err != nil {
		if errors.Is(err, migrations.ErrLocked) {
			logger.Warn("migrations skipped", slog.Any("error", err))
			return
		}
		pool.Close()
		logger.Error("migrations failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations up to date")
}
