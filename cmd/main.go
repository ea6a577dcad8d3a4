package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sheexliies/ViperDraft/internal/adapters/http/api"
	"github.com/sheexliies/ViperDraft/internal/adapters/http/swagger"
	"github.com/sheexliies/ViperDraft/internal/adapters/repository"
	app "github.com/sheexliies/ViperDraft/internal/app"
	"github.com/sheexliies/ViperDraft/internal/config"
	"github.com/sheexliies/ViperDraft/internal/domain/draft"
	"github.com/sheexliies/ViperDraft/internal/domain/order"
	"github.com/sheexliies/ViperDraft/internal/domain/selection"
	"github.com/sheexliies/ViperDraft/pkg/logger"
	"github.com/sheexliies/ViperDraft/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Switch to JSON output when configured
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("invalid log_format: " + err.Error() + "\n")
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the service with configuration options
	svc, err := buildService(cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		return
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// Create HTTP server with API and Swagger routes
	srv := newHTTPServer(cfg, svc, loggerInstance)

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// engineOptions maps configuration onto draft engine options.
func engineOptions(cfg *config.Config, log logger.Logger) ([]draft.Option, error) {
	mode, err := order.ParseMode(cfg.OrderMode)
	if err != nil {
		return nil, err
	}
	return []draft.Option{
		draft.WithSelector(selection.NewSoftmax(selection.WithTemperature(cfg.Temperature))),
		draft.WithOrderMode(mode),
		draft.WithMaxAttempts(cfg.MaxAttempts),
		draft.WithLogger(log.Named("engine")),
	}, nil
}

// newStore keeps snapshots on disk when snapshot_dir is set.
func newStore(cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.SnapshotDir == "" {
		return repository.NewMemoryStore(), nil
	}
	return repository.NewFileStore(cfg.SnapshotDir, repository.WithLogger(log.Named("repository")))
}

// buildService wires the draft service from configuration.
func buildService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	engineOpts, err := engineOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := newStore(cfg, log)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithSession(cfg.SessionID),
		app.WithDefaults(cfg.Settings()),
		app.WithMaxAttempts(cfg.MaxAttempts),
		app.WithQueueSize(cfg.SolveQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithEngineOptions(engineOpts...),
	), nil
}

// newHTTPServer registers the API and its docs on a fresh mux.
func newHTTPServer(cfg *config.Config, svc *app.Service, log logger.Logger) *http.Server {
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	api.NewServer(svc, svc,
		api.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		api.WithLogger(log.Named("http")),
	).Register(mux)

	// Register Swagger UI under /swagger
	swagger.Register(mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
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

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// Update memory usage
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes gauges that only change through the service.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	// Get current stats from the service
	stats := svc.GetStats(ctx)
	metrics.UpdateQueueSize(stats.QueueSize)
	metrics.UpdateCandidatesTotal(stats.Candidates)
	metrics.UpdateDraftProgress(stats.Progress)
}
