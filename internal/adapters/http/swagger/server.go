// Package swagger serves the embedded swagger-ui: an entry redirect that
// points the UI at the service's swagger.json, a generated settings.js and
// the static UI assets from the resource cache.
package swagger

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/okian/swaggerui/internal/adapters/http/middleware"
	"github.com/okian/swaggerui/internal/domain/resource"
	"github.com/okian/swaggerui/pkg/logger"
)

// Defaults applied by New for blank settings.
const (
	DefaultTheme         = "swagger"
	DefaultValidationURL = "http://online.swagger.io/validator/debug"
)

const (
	// MountPath is where the UI lives below the mount prefix.
	MountPath = "/swagger-ui"

	settingsPath       = "/settings.js"
	specFile           = "/swagger.json"
	cacheControl       = "max-age=600"
	defaultContentType = "application/octet-stream"
)

// Resolver returns asset bytes for a normalized logical path.
type Resolver interface {
	Resolve(ctx context.Context, name string) ([]byte, error)
}

// Config holds the settings fixed at construction.
type Config struct {
	// ContextPath overrides the base path used to locate swagger.json.
	// Blank means the prefix the server is mounted under.
	ContextPath string
	// Theme selects the theme directory; requests for "theme/..." are
	// served from "theme/<Theme>/...".
	Theme string
	// ValidationURL is handed to the UI through settings.js.
	ValidationURL string
}

// Server is the swagger-ui HTTP handler. It is safe for concurrent use.
type Server struct {
	resolver    Resolver
	contextPath string
	themePath   string
	settings    []byte
	logger      logger.Logger

	root      http.Handler
	settingsH http.Handler
	static    http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for read failures and request logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New validates cfg, applies defaults and builds the server.
func New(resolver Resolver, cfg Config, opts ...Option) (*Server, error) {
	if resolver == nil {
		return nil, fmt.Errorf("%w: resolver is nil", ErrInvalidConfig)
	}

	theme := strings.TrimSpace(cfg.Theme)
	if theme == "" {
		theme = DefaultTheme
	}
	if strings.ContainsAny(theme, "/\\") || strings.Contains(theme, "..") {
		return nil, fmt.Errorf("%w: theme %q must be a single path segment", ErrInvalidConfig, theme)
	}

	validationURL := strings.TrimSpace(cfg.ValidationURL)
	if validationURL == "" {
		validationURL = DefaultValidationURL
	}
	if strings.ContainsAny(validationURL, "'\\\n\r") {
		return nil, fmt.Errorf("%w: validation url %q contains script delimiters", ErrInvalidConfig, validationURL)
	}
	if _, err := url.Parse(validationURL); err != nil {
		return nil, fmt.Errorf("%w: validation url: %w", ErrInvalidConfig, err)
	}

	s := &Server{
		resolver:    resolver,
		contextPath: NormalizeContextPath(cfg.ContextPath),
		themePath:   "theme/" + theme,
		settings:    []byte(SettingsScript(validationURL)),
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.root = middleware.Metrics(http.HandlerFunc(s.handleRoot), "root")
	s.settingsH = middleware.Metrics(http.HandlerFunc(s.handleSettings), "settings")
	s.static = middleware.Metrics(http.HandlerFunc(s.handleStatic), "static")
	return s, nil
}

// NormalizeContextPath trims blanks and trailing slashes and guarantees a
// leading slash for non-empty paths.
func NormalizeContextPath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// ThemePath returns the segment substituted for "theme" in asset paths.
func (s *Server) ThemePath() string { return s.themePath }

// Settings returns the generated settings.js body.
func (s *Server) Settings() string { return string(s.settings) }

// Mount registers the server on mux below prefix + MountPath and records
// prefix in each request context.
func (s *Server) Mount(mux *http.ServeMux, prefix string) {
	if mux == nil {
		panic("mux is nil")
	}
	prefix = NormalizeContextPath(prefix)
	base := prefix + MountPath
	h := http.StripPrefix(base, withMountPrefix(prefix, s))
	mux.Handle(base, h)
	mux.Handle(base+"/", h)
}

// ServeHTTP routes a request relative to the mount point.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "", "/":
		s.root.ServeHTTP(w, r)
	case settingsPath:
		s.settingsH.ServeHTTP(w, r)
	default:
		s.static.ServeHTTP(w, r)
	}
}

// handleRoot redirects to the UI entry page with the swagger.json location.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	base := s.contextPath
	if base == "" {
		base = MountPrefix(r.Context())
	}

	// Relative to the request: "<mount>/swagger-ui" needs the segment,
	// "<mount>/swagger-ui/" already points into it.
	loc := "swagger-ui/index.html?url=" + base + specFile
	if r.URL.Path == "/" {
		loc = "index.html?url=" + base + specFile
	}
	if q := r.URL.RawQuery; strings.TrimSpace(q) != "" {
		loc += "&" + q
	}

	w.Header().Set("Location", loc)
	w.WriteHeader(http.StatusSeeOther)
}

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript")
	w.Header().Set("Content-Length", strconv.Itoa(len(s.settings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.settings)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	key, ok := Normalize(r.URL.Path, s.themePath)
	if !ok || key == "" {
		http.NotFound(w, r)
		return
	}

	data, err := s.resolver.Resolve(r.Context(), key)
	switch {
	case errors.Is(err, resource.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, context.Canceled):
		// The client went away; there is nobody to answer.
		s.logger.Debug(r.Context(), "asset request canceled", logger.String("path", key))
		return
	case err != nil:
		s.logger.Error(r.Context(), "asset resolution failed",
			logger.String("path", key),
			logger.Error(fmt.Errorf("%w: %w", ErrServe, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", ContentType(key))
	h.Set("Cache-Control", cacheControl)
	h.Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ContentType guesses the MIME type from the file extension.
func ContentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return defaultContentType
}
