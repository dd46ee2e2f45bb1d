// Command seed fills the genres table from TMDB's movie and TV genre lists.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"movie-discovery-bff/internal/config"
	"movie-discovery-bff/internal/database"
	"movie-discovery-bff/internal/logging"
	"movie-discovery-bff/internal/repository"
	"movie-discovery-bff/internal/service"
	"movie-discovery-bff/internal/tmdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log)

	if cfg.TMDB.APIKey == "" {
		slog.Error("TMDB_API_KEY is required")
		os.Exit(1)
	}

	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, tmdb.Options{
		Timeout:    cfg.TMDB.Timeout,
		MaxRetries: cfg.TMDB.MaxRetries,
		RetryDelay: cfg.TMDB.RetryDelay,
		RateLimit:  cfg.TMDB.RateLimit,
	})
	genres := service.NewGenreService(repository.NewGenreRepository(db), client, nil)

	n, err := genres.Sync(ctx)
	if err != nil {
		slog.Error("genre seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("genres seeded", "count", n)
}
