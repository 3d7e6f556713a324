package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/swaggerui/internal/adapters/http/api"
	"github.com/okian/swaggerui/internal/adapters/http/middleware"
	app "github.com/okian/swaggerui/internal/app"
	"github.com/okian/swaggerui/internal/config"
	"github.com/okian/swaggerui/pkg/logger"
	"github.com/okian/swaggerui/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// loadConfig reads configuration from path, or $SWAGGERUI_CONFIG when path is blank.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.Load(ctx)
	}
	return config.LoadFile(ctx, path)
}

// initLogging configures the global logger from cfg.
func initLogging(cfg *config.Config) error {
	opts := []logger.Option{logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)}
	if cfg.LogFile != "" {
		opts = append(opts,
			logger.WithFile(cfg.LogFile),
			logger.WithRotation(cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogCompress),
		)
	}
	if err := logger.Init(opts...); err != nil {
		return err
	}
	return logger.SetLevelString(cfg.LogLevel)
}

// configureMetrics rebuilds the global metrics manager from cfg.
func configureMetrics(cfg *config.Config) {
	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
	)
}

// newService maps cfg onto the service options.
func newService(cfg *config.Config, log logger.Logger, preload bool) *app.Service {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithBundlePaths(cfg.BundlePaths...),
		app.WithBundleRoot(cfg.BundleRoot),
		app.WithTheme(cfg.Theme),
		app.WithValidationURL(cfg.ValidationURL),
		app.WithContextPath(cfg.ContextPath),
	}
	if preload {
		opts = append(opts, app.WithPreload(cfg.Preload, cfg.PreloadWorkers))
	}
	return app.New(opts...)
}

// buildHandler wires the UI, the operational endpoints and the middleware chain.
func buildHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	if err := svc.Mount(mux, cfg.MountPrefix); err != nil {
		return nil, err
	}

	apiOpts := []api.Option{api.WithMetrics(cfg.MetricsEnabled)}
	if cfg.SpecFile != "" {
		doc, err := api.LoadSpec(cfg.SpecFile)
		if err != nil {
			return nil, err
		}
		apiOpts = append(apiOpts, api.WithSpec(cfg.SpecPath(), doc))
	}
	api.NewServer(svc, apiOpts...).Register(ctx, mux)

	return middleware.RequestID(middleware.AccessLog(middleware.RejectTraversal(mux), log)), nil
}

func runServe(parent context.Context, configPath string, stderr io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		_, _ = fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return err
	}
	if err := initLogging(cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return err
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	configureMetrics(cfg)

	svc := newService(cfg, log, true)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return err
	}
	defer svc.Stop()

	handler, err := buildHandler(ctx, cfg, svc, log)
	if err != nil {
		log.Error(ctx, "failed to build routes", logger.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("ui", cfg.MountPrefix+"/swagger-ui"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}
