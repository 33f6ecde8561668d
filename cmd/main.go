package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/okian/courtside/internal/adapters/feed"
	"github.com/okian/courtside/internal/adapters/http/api"
	"github.com/okian/courtside/internal/adapters/http/swagger"
	"github.com/okian/courtside/internal/adapters/repository"
	app "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	redisPingTimeout          = 2 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger format depends on config, so report on stderr
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "courtside stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

// run wires the application and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	handler, svc, cleanup, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	// Wait for shutdown signal or listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newApplication builds the feed client, the service and the HTTP routes.
// The returned cleanup releases the cache connection, if any.
func newApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, *app.Service, func(), error) {
	fetcher := feed.NewHTTPFetcher(cfg.FeedURLTemplate, feed.WithTimeout(cfg.FeedTimeout()))

	clientOpts := []feed.Option{
		feed.WithLogger(log.Named("feed")),
		feed.WithFlightTimeout(2 * cfg.FeedTimeout()),
	}
	cleanup := func() {}

	if cfg.CacheBackend == config.CacheRedis {
		store, closeFn, err := newRedisStore(ctx, cfg, log)
		if err != nil {
			return nil, nil, nil, err
		}
		clientOpts = append(clientOpts, feed.WithStore(store, cfg.CacheTTL()))
		cleanup = closeFn
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithSource(feed.NewClient(fetcher, clientOpts...)),
		app.WithGameID(cfg.GameID),
		app.WithCacheBackend(cfg.CacheBackend),
	)
	if err := svc.Start(ctx); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("start service: %w", err)
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	serverOpts := []api.ServerOption{api.WithErrorLog(log.Named("http"))}
	if cfg.RequestLog {
		serverOpts = append(serverOpts, api.WithRequestLog(log.Named("http")))
	}
	api.NewServer(svc, svc, serverOpts...).Register(ctx, mux)

	return mux, svc, cleanup, nil
}

// newRedisStore connects the feed cache. An unreachable server is only
// logged: cache failures are bypassed per request.
func newRedisStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*repository.RedisStore, func(), error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: redis_url: %w", config.ErrInvalidConfig, err)
	}
	client := redis.NewClient(opts)
	store := repository.NewRedisStore(client)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Warn(ctx, "redis cache unreachable; continuing without warm cache",
			logger.String("addr", opts.Addr), logger.Error(err))
	} else {
		log.Info(ctx, "using redis feed cache",
			logger.String("addr", opts.Addr), logger.Duration("ttl", cfg.CacheTTL()))
	}

	return store, func() { _ = client.Close() }, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average pause across all collections so far
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
