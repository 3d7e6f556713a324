// Package api registers the service endpoints that sit next to the UI:
// health, Prometheus metrics and the swagger.json passthrough.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/swaggerui/internal/adapters/http/middleware"
)

// Dependencies exposes the cache figures reported by /healthz.
type Dependencies interface {
	Len() int
	Size() int64
}

// Server wires the auxiliary HTTP routes.
type Server struct {
	healthHandler *HealthHandler
	specHandler   *SpecHandler
	specPath      string
	metrics       bool
}

// Option configures a Server.
type Option func(*Server)

// WithSpec serves doc verbatim at path (for example "/api/swagger.json").
func WithSpec(path string, doc []byte) Option {
	return func(s *Server) {
		if path != "" && doc != nil {
			s.specPath = path
			s.specHandler = NewSpecHandler(doc)
		}
	}
}

// WithMetrics toggles the /metrics endpoint.
func WithMetrics(enabled bool) Option {
	return func(s *Server) {
		s.metrics = enabled
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(deps),
		metrics:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/healthz", middleware.Metrics(http.HandlerFunc(s.healthHandler.HandleHealth), "healthz"))
	if s.metrics {
		mux.Handle("/metrics", MetricsHandler())
	}
	if s.specHandler != nil {
		mux.Handle(s.specPath, middleware.Metrics(http.HandlerFunc(s.specHandler.HandleSpec), "spec"))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Code: code, Message: http.StatusText(status)})
}
