package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapters/cache"
	"github.com/jobdeck/jobdeck/internal/adapters/http/api"
	"github.com/jobdeck/jobdeck/internal/adapters/http/swagger"
	"github.com/jobdeck/jobdeck/internal/adapters/providers"
	"github.com/jobdeck/jobdeck/internal/adapters/repository"
	service "github.com/jobdeck/jobdeck/internal/app"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/domain/geo"
	"github.com/jobdeck/jobdeck/internal/domain/normalize"
	"github.com/jobdeck/jobdeck/internal/domain/rank"
	"github.com/jobdeck/jobdeck/internal/samples"
	"github.com/jobdeck/jobdeck/internal/scheduler"
	"github.com/jobdeck/jobdeck/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := buildStore(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open job store", logger.Error(err))
		return
	}

	// Create and start the service with configuration options
	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithStore(store),
		service.WithCache(buildCache(ctx, cfg, loggerInstance)),
		service.WithProviders(buildProviders(cfg)),
		service.WithNormalizer(normalize.New(normalize.WithDefaultCountry(cfg.DefaultCountry))),
		service.WithRanker(rank.New(rank.WithWeights(rank.Weights{
			Keyword:   cfg.WeightKeyword,
			Location:  cfg.WeightLocation,
			Freshness: cfg.WeightFreshness,
			History:   cfg.WeightHistory,
		}))),
		service.WithPlanner(geo.NewPlanner(
			geo.WithTargetCountries(cfg.TargetCountries),
			geo.WithFallbackCountries(cfg.FallbackCountries),
		)),
		service.WithSampler(samples.New(cfg.SampleSeed)),
		service.WithLimits(cfg.DefaultLimit, cfg.MaxLimit),
		service.WithWorkerCount(cfg.IngestWorkerCount),
		service.WithQueueSize(cfg.IngestQueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Periodic refresh of configured queries from external providers.
	sched := scheduler.New(svc, cfg.RefreshSpec, cfg.RefreshQueries, cfg.TargetCountries, scheduler.WithLogger(loggerInstance))
	if err := sched.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start refresh scheduler", logger.Error(err))
		return
	}
	defer sched.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register the docs page and OpenAPI spec.
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildStore opens the SQLite-backed store when a path is configured and
// falls back to the in-memory store otherwise.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.SQLitePath == "" {
		log.Info(ctx, "using in-memory job store")
		return repository.NewMemStore(), nil
	}
	store, err := repository.NewSQLStore(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "using sqlite job store", logger.String("path", cfg.SQLitePath))
	return store, nil
}

// buildCache connects to Redis when configured, and otherwise uses the
// in-process cache. A failed Redis connection degrades to in-process
// caching rather than failing startup.
func buildCache(ctx context.Context, cfg *config.Config, log logger.Logger) cache.Cache {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cfg.RedisAddr != "" {
		r, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cache.WithRedisTTL(ttl))
		if err == nil {
			log.Info(ctx, "using redis cache", logger.String("addr", cfg.RedisAddr))
			return r
		}
		log.Warn(ctx, "redis unavailable; using in-process cache", logger.Error(err))
	}
	return cache.NewMemory(cache.WithTTL(ttl), cache.WithMaxEntries(cfg.CacheMaxEntries))
}

// buildProviders registers every external job board the configuration
// carries credentials for. Missing credentials simply leave that provider
// out of the fan-out.
func buildProviders(cfg *config.Config) *providers.Registry {
	var list []providers.Provider
	if cfg.AdzunaAppID != "" && cfg.AdzunaAppKey != "" {
		list = append(list, providers.NewAdzuna(cfg.AdzunaAppID, cfg.AdzunaAppKey))
	}
	if cfg.JSearchAPIKey != "" {
		list = append(list, providers.NewJSearch(cfg.JSearchAPIKey))
	}
	if cfg.JoobleAPIKey != "" {
		list = append(list, providers.NewJooble(cfg.JoobleAPIKey))
	}
	return providers.NewRegistry(list...)
}

// startServiceMetricsUpdater periodically refreshes the service gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stats updates the queue and repository gauges as a side effect.
			_ = svc.Stats()
		}
	}
}
