package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/mesobmatch/backend/config"
	"github.com/pageza/mesobmatch/backend/internal/database"
	"github.com/pageza/mesobmatch/backend/internal/logging"
	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/metrics"
	"github.com/pageza/mesobmatch/backend/internal/middleware"
	"github.com/pageza/mesobmatch/backend/internal/router"
	"github.com/pageza/mesobmatch/backend/internal/server"
	"github.com/pageza/mesobmatch/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis backs the match cache and the rate limiter; both are skipped
	// when it is unreachable.
	var redisClient *redis.Client
	if client, err := database.NewRedisClient(ctx, cfg, logger); err != nil {
		logger.Warn("redis unavailable, match cache and rate limiting disabled", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	categories, err := matching.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		logger.Fatal("failed to load ingredient categories", zap.Error(err))
	}
	logger.Info("loaded ingredient categories",
		zap.String("version", categories.Version()),
		zap.Int("count", len(categories.List())))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	catalog := service.NewCatalogService(db, categories, logger.Named("catalog"))
	snapshots := service.NewSnapshotService(catalog, categories, m, logger.Named("index"),
		matching.WithSharding(cfg.MatchShards, cfg.MatchShardThreshold))
	catalog.OnChange(snapshots.Invalidate)

	buildCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if _, err := snapshots.Rebuild(buildCtx); err != nil {
		logger.Fatal("failed to build matching index", zap.Error(err))
	}
	cancel()

	cache := service.NewMatchCache(redisClient, cfg.MatchCacheTTL, logger.Named("match_cache"))
	matches := service.NewMatchService(snapshots, catalog, cache, m, logger.Named("match"))
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiry)

	var images service.IImageService
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to configure image storage", zap.Error(err))
		}
		images = service.NewImageService(s3Config, logger.Named("images"))
	} else {
		logger.Warn("S3_BUCKET_NAME not set, recipe image uploads disabled")
	}

	limiter := middleware.NewMatchRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, m, logger.Named("rate_limit"))

	handler := router.SetupRouter(router.Dependencies{
		DB:          db,
		Auth:        auth,
		Catalog:     catalog,
		Matches:     matches,
		Images:      images,
		RateLimiter: limiter,
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := server.New(cfg, handler, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr()))
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
