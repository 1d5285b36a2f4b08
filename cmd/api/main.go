package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kasirkita/internal/auth"
	"kasirkita/internal/cache"
	"kasirkita/internal/config"
	"kasirkita/internal/database"
	"kasirkita/internal/handler"
	"kasirkita/internal/metrics"
	"kasirkita/internal/repository"
	"kasirkita/internal/router"
	"kasirkita/internal/service"
	"kasirkita/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting kasirkita API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Initialize image store with S3 and local fallback
	localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize local image store: %w", err)
	}

	imageStore := localStore
	if cfg.Storage.S3Enabled {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region, cfg.Storage.S3Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 image store, falling back to local file system only")
		} else {
			imageStore = s3Store
		}
	} else {
		logger.Info().Msg("using local file system for product images (S3 disabled)")
	}

	// Initialize product cache
	productCache := cache.NewNoopProductCache()
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisProductCache(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to connect to redis, product caching disabled")
		} else {
			productCache = redisCache
		}
	}

	// Initialize token manager and metrics
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	m := metrics.New()

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	productService := service.NewProductService(productRepo, categoryService, imageStore, productCache, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, productCache, m.OrdersCreated, logger)
	reportService := service.NewReportService(reportRepo, logger)

	// Initialize HTTP handlers and router
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Report:   handler.NewReportHandler(reportService, logger),
	}

	uploadsDir := ""
	if imageStore == localStore {
		uploadsDir = cfg.Storage.LocalDir
	}

	mux := router.New(handlers, tokens, m, uploadsDir, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
