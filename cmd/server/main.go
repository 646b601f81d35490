package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"Murmur/internal/api/middleware"
	"Murmur/internal/api/routes"
	"Murmur/internal/bootstrap"
	"Murmur/internal/config"
	"Murmur/internal/core/likes"
	"Murmur/internal/core/posts"
	"Murmur/internal/core/timeline"
	"Murmur/internal/db/migrations"
	postgresRepo "Murmur/internal/db/postgres"
	"Murmur/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		log.Fatal("Invalid auth configuration:", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close database", "error", closeErr)
		}
	}()
	logger.Info("connected to database")

	if err := migrations.Up(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	logger.Info("migrations completed successfully")

	index, indexCloser, err := bootstrap.OpenFeedIndex(ctx, cfg, db)
	if err != nil {
		log.Fatal("Failed to open feed index:", err)
	}
	defer func() {
		if closeErr := indexCloser.Close(); closeErr != nil {
			logger.Error("failed to close feed index", "error", closeErr)
		}
	}()
	logger.Info("feed index ready", "backend", cfg.FeedIndex)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "murmur"),
	)
	m := metrics.New(registry)

	// Initialize repositories and services
	postRepo := postgresRepo.NewPostRepository(db)
	followRepo := postgresRepo.NewFollowRepository(db)
	likeRepo := postgresRepo.NewLikeRepository(db)

	fanoutCfg := posts.DefaultFanoutConfig()
	fanoutCfg.Concurrency = cfg.FanoutConcurrency
	fanoutCfg.Retries = cfg.FanoutRetries
	fanoutCfg.Timeout = cfg.FanoutTimeout
	fanoutCfg.IncludeAuthor = cfg.FanoutSelf

	postService := posts.NewPostService(postRepo, followRepo, index, fanoutCfg, m, logger.With("component", "posts"))
	timelineService := timeline.NewTimelineService(index, postRepo,
		timeline.Config{IncludeOwnPosts: cfg.FanoutSelf}, logger.With("component", "timeline"))
	likeService := likes.NewLikeService(likeRepo, m, logger.With("component", "likes"))

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.JWTSecret), cfg.AuthSkipVerify)
	if cfg.AuthSkipVerify {
		logger.Warn("AUTH_SKIP_VERIFY is enabled: bearer tokens are not verified")
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	r.Use(rateLimiter.Middleware)

	routes.RegisterSystemRoutes(r, db, registry)
	routes.RegisterPostRoutes(r, postService, timelineService, likeService, authMiddleware)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Murmur starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
