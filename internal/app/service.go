// Package service assembles the asset bundles, the resource cache and the
// swagger-ui handler into a runnable unit.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"

	"github.com/okian/swaggerui/internal/adapters/bundle"
	"github.com/okian/swaggerui/internal/adapters/http/swagger"
	"github.com/okian/swaggerui/internal/assets"
	"github.com/okian/swaggerui/internal/domain/resource"
	"github.com/okian/swaggerui/pkg/logger"
)

// ErrNotStarted is returned by operations that need Start to have run.
var ErrNotStarted = errors.New("service not started")

// Service owns the resource cache and the UI handler built on top of it.
type Service struct {
	mu sync.RWMutex

	// Bundle sources
	embedded     fs.FS
	embeddedRoot string
	bundlePaths  []string
	bundleRoot   string

	// UI settings
	ui swagger.Config

	// Warm-up
	preload        []string
	preloadWorkers int

	// State
	started  bool
	closers  []io.Closer
	resolver *resource.Resolver
	server   *swagger.Server

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBundlePaths adds directories or zip/jar archives searched before the
// embedded bundle, in the given order.
func WithBundlePaths(paths ...string) Option {
	return func(s *Service) {
		s.bundlePaths = append(s.bundlePaths, paths...)
	}
}

// WithBundleRoot sets the directory holding the UI inside external bundles.
func WithBundleRoot(root string) Option {
	return func(s *Service) {
		if root != "" {
			s.bundleRoot = root
		}
	}
}

// WithEmbedded replaces the built-in bundle. A nil fsys disables it.
func WithEmbedded(fsys fs.FS, root string) Option {
	return func(s *Service) {
		s.embedded = fsys
		s.embeddedRoot = root
	}
}

// WithTheme selects the UI theme.
func WithTheme(theme string) Option {
	return func(s *Service) {
		s.ui.Theme = theme
	}
}

// WithValidationURL sets the validator URL exposed through settings.js.
func WithValidationURL(u string) Option {
	return func(s *Service) {
		s.ui.ValidationURL = u
	}
}

// WithContextPath sets the base path used to locate swagger.json.
func WithContextPath(p string) Option {
	return func(s *Service) {
		s.ui.ContextPath = p
	}
}

// WithPreload sets the assets warmed into the cache on Start.
func WithPreload(patterns []string, workers int) Option {
	return func(s *Service) {
		s.preload = patterns
		if workers > 0 {
			s.preloadWorkers = workers
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		embedded:       assets.FS,
		embeddedRoot:   assets.Root,
		bundleRoot:     assets.Root,
		preloadWorkers: 4,
		ui: swagger.Config{
			Theme:         swagger.DefaultTheme,
			ValidationURL: swagger.DefaultValidationURL,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the bundles, builds the handler and warms the cache.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting swagger-ui service...")

	layers := make([]bundle.Bundle, 0, len(s.bundlePaths)+1)
	for _, p := range s.bundlePaths {
		b, closer, err := bundle.Open(p, s.bundleRoot)
		if err != nil {
			s.closeBundles()
			return err
		}
		if closer != nil {
			s.closers = append(s.closers, closer)
		}
		layers = append(layers, b)
		s.logger.Info(ctx, "using bundle", logger.String("path", p))
	}
	if s.embedded != nil {
		layers = append(layers, bundle.FS(s.embedded, s.embeddedRoot, "embedded"))
	}

	resolver := resource.NewResolver(bundle.Layered(layers...),
		resource.WithLogger(s.logger.Named("resource")),
	)
	server, err := swagger.New(resolver, s.ui, swagger.WithLogger(s.logger.Named("swagger")))
	if err != nil {
		s.closeBundles()
		return err
	}

	if len(s.preload) > 0 {
		res, err := resolver.Warm(ctx, s.preload, s.preloadWorkers)
		if err != nil {
			s.closeBundles()
			return fmt.Errorf("warm cache: %w", err)
		}
		s.logger.Info(ctx, "cache warmed",
			logger.Int("loaded", res.Loaded),
			logger.Int("missing", len(res.Missing)),
		)
	}

	s.resolver = resolver
	s.server = server
	s.started = true
	s.logger.Info(ctx, "swagger-ui service started",
		logger.String("theme", s.ui.Theme),
		logger.Int("bundles", len(layers)),
	)
	return nil
}

// Stop releases archive bundles. The service may be started again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.closeBundles()
	s.started = false
	s.resolver = nil
	s.server = nil
	s.logger.Info(context.Background(), "swagger-ui service stopped")
}

func (s *Service) closeBundles() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil && s.logger != nil {
			s.logger.Warn(context.Background(), "failed to close bundle", logger.Error(err))
		}
	}
	s.closers = nil
}

// Mount registers the UI under prefix + "/swagger-ui".
func (s *Service) Mount(mux *http.ServeMux, prefix string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	s.server.Mount(mux, prefix)
	return nil
}

// Handler returns the UI handler for callers doing their own routing.
func (s *Service) Handler() (http.Handler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.server, nil
}

// Asset resolves a request path the way the UI handler does, including
// query stripping and theme substitution.
func (s *Service) Asset(ctx context.Context, p string) ([]byte, error) {
	s.mu.RLock()
	server, resolver := s.server, s.resolver
	s.mu.RUnlock()

	if resolver == nil {
		return nil, ErrNotStarted
	}
	key, ok := swagger.Normalize(p, server.ThemePath())
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: %s", resource.ErrNotFound, p)
	}
	return resolver.Resolve(ctx, key)
}

// Len returns the number of cached assets.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resolver == nil {
		return 0
	}
	return s.resolver.Len()
}

// Size returns the number of cached bytes.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resolver == nil {
		return 0
	}
	return s.resolver.Size()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"theme":   s.ui.Theme,
		"bundles": len(s.bundlePaths),
	}
	if s.started {
		stats["cachedAssets"] = s.resolver.Len()
		stats["cachedBytes"] = s.resolver.Size()
	}
	return stats
}
