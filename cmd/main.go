package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/locator/internal/api"
	"github.com/UnknownOlympus/locator/internal/cache"
	"github.com/UnknownOlympus/locator/internal/config"
	"github.com/UnknownOlympus/locator/internal/database"
	"github.com/UnknownOlympus/locator/internal/geocoding"
	"github.com/UnknownOlympus/locator/internal/locator"
	"github.com/UnknownOlympus/locator/internal/metrics"
	"github.com/UnknownOlympus/locator/internal/repository"
	"github.com/UnknownOlympus/locator/internal/search"
	"github.com/UnknownOlympus/locator/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	// Separate registry so only our collectors are exported.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(
		ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	if err = database.Migrate(ctx, dtb, logger); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := repository.NewRepository(dtb, logger)

	redisClient := connectRedis(ctx, logger, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}
	feedCache := cache.NewFeedCache(redisClient, cfg.Redis.TTL, logger, appMetrics)

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Provider),
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		BaseURL:   cfg.Geocoder.BaseURL,
		Region:    cfg.Geocoder.Region,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Provider)

	locatorService := service.NewLocatorService(
		logger,
		repo,
		cache.NewOriginCache(geoProvider, redisClient, cfg.Redis.OriginTTL, logger, appMetrics),
		appMetrics,
		search.NewDescriber(),
		locator.NewEvaluator(locator.Limits{
			FullList:    cfg.Locator.FullListLimit,
			AutoGeocode: cfg.Locator.AutoGeocodeLimit,
		}),
		service.Options{
			MapsAPIKey:    cfg.Locator.MapsAPIKey,
			DefaultRadius: cfg.Locator.DefaultRadius,
			BasePath:      cfg.Locator.BasePath,
			ProviderName:  cfg.Geocoder.Provider,
			AddressPrefix: cfg.Geocoder.AddressPrefix,
		},
	)

	handler := api.NewHandler(logger, locatorService, feedCache, repo)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(logger, handler, reg, appMetrics),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "port", cfg.Port)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", errServe)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "HTTP server shutdown failed", "error", err)
	}

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// connectRedis returns nil when caching is disabled or Redis is unreachable,
// in which case feeds are built on every request.
func connectRedis(ctx context.Context, logger *slog.Logger, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		logger.InfoContext(ctx, "Feed cache disabled")
		return nil
	}

	client, err := cache.Connect(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.WarnContext(ctx, "Feed cache unavailable, continuing without it", "error", err)
		return nil
	}

	return client
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}))
	default:
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: dropTime}))
		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
		return logger
	}
}
