package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"example.com/bagels/internal/app"
	"example.com/bagels/internal/config"
	"example.com/bagels/internal/migrate"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	log := cfg.Logger(os.Stdout)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.RunMigrations {
		if err := migrate.Up(ctx, cfg.Postgres.URL, cfg.Postgres.MigrationsDir, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Info("starting", "env", cfg.Env, "guess_duration", cfg.Game.GuessDuration, "sim_workers", cfg.Simulation.Workers)
	return a.Run(ctx)
}
