package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"movie-discovery-bff/internal/auth"
	"movie-discovery-bff/internal/config"
	"movie-discovery-bff/internal/database"
	"movie-discovery-bff/internal/handler"
	"movie-discovery-bff/internal/logging"
	"movie-discovery-bff/internal/middleware"
	"movie-discovery-bff/internal/repository"
	"movie-discovery-bff/internal/service"
	"movie-discovery-bff/internal/storage"
	"movie-discovery-bff/internal/tmdb"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log)

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache and rate limiting", "error", err)
		rdb = nil
	}

	// Object storage (non-fatal if not configured)
	var presigner service.URLPresigner
	if p, err := storage.NewPresigner(context.Background(), cfg.Storage); err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			slog.Warn("S3_BUCKET not set, upload URLs are disabled")
		} else {
			slog.Error("failed to initialise object storage", "error", err)
		}
	} else {
		presigner = p
	}

	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, tmdb.Options{
		Timeout:    cfg.TMDB.Timeout,
		MaxRetries: cfg.TMDB.MaxRetries,
		RetryDelay: cfg.TMDB.RetryDelay,
		RateLimit:  cfg.TMDB.RateLimit,
	})
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	cache := service.NewResponseCache(rdb, cfg.CacheTTL)

	// Initialize layers
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	watchRepo := repository.NewWatchRepository(db)

	services := handler.Services{
		Auth:      service.NewAuthService(userRepo, tokens, auth.NewGoogleVerifier(cfg.Google.ClientID)),
		Users:     service.NewUserService(userRepo),
		Profiles:  service.NewProfileService(profileRepo),
		Genres:    service.NewGenreService(genreRepo, tmdbClient, cache),
		Discovery: service.NewDiscoveryService(tmdbClient, service.NewPreferenceResolver(genreRepo), cache, cfg.TMDB.ImageBaseURL),
		Watch:     service.NewWatchService(watchRepo),
		Uploads:   service.NewUploadService(presigner, cfg.Storage.UploadURLTTL),
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Discovery BFF",
		ServerHeader: "Movie-Discovery-BFF",
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds).Handler())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	handler.RegisterRoutes(app, services, middleware.Auth(tokens, userRepo))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down server...")
		_ = app.Shutdown()
	}()

	addr := ":" + cfg.Port
	slog.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		}
	}
	slog.Info("shutdown complete")
}
