// Package metrics provides Prometheus metrics for the swagger-ui resource server.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	registry         prometheus.Registerer

	// Resource cache
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	cacheEntries prometheus.Gauge
	cacheBytes   prometheus.Gauge

	// Asset bundle
	bundleReads       prometheus.Counter
	bundleReadErrors  prometheus.Counter
	bundleReadLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager atomic.Pointer[Manager] //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // intentional global for metrics registry

// DefaultLatencyBuckets are the HTTP latency buckets in milliseconds.
var DefaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // read-only defaults

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. Call it before serving; series recorded earlier are dropped.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry.Store(registry)
	globalManager.Store(m)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "swaggerui",
		subsystem:        "resources",
		histogramBuckets: DefaultLatencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// SetEnabled turns recording through the package-level helpers on or off.
func SetEnabled(enabled bool) {
	globalManager.Load().enabled.Store(enabled)
}

// Enabled reports whether the package-level helpers record anything.
func Enabled() bool {
	return globalManager.Load().enabled.Load()
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of asset lookups answered from the in-memory cache",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of asset lookups that had to query the bundle",
	})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Number of assets held in the in-memory cache",
	})

	m.cacheBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_bytes",
		Help:      "Total size in bytes of the cached assets",
	})

	m.bundleReads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bundle_reads_total",
		Help:      "Total number of asset reads from the packaged bundle",
	})

	m.bundleReadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bundle_read_errors_total",
		Help:      "Total number of failed bundle reads (packaging defects)",
	})

	m.bundleReadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bundle_read_latency_milliseconds",
		Help:      "Histogram of bundle lookup and read latency in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of error responses by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// Manager methods. They are no-ops when the manager is disabled.

// RecordCacheHit increments the cache hit counter.
func (m *Manager) RecordCacheHit() {
	if m.enabled.Load() {
		m.cacheHits.Inc()
	}
}

// RecordCacheMiss increments the cache miss counter.
func (m *Manager) RecordCacheMiss() {
	if m.enabled.Load() {
		m.cacheMisses.Inc()
	}
}

// RecordCacheStore accounts for a newly cached asset of size bytes.
func (m *Manager) RecordCacheStore(size int) {
	if m.enabled.Load() {
		m.cacheEntries.Inc()
		m.cacheBytes.Add(float64(size))
	}
}

// RecordBundleRead records a bundle lookup that took latencyMs.
func (m *Manager) RecordBundleRead(latencyMs float64) {
	if m.enabled.Load() {
		m.bundleReads.Inc()
		m.bundleReadLatency.Observe(latencyMs)
	}
}

// RecordBundleReadError increments the bundle read error counter.
func (m *Manager) RecordBundleReadError() {
	if m.enabled.Load() {
		m.bundleReadErrors.Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled.Load() {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled.Load() {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// Package-level helpers backed by the global manager.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { globalManager.Load().RecordCacheHit() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { globalManager.Load().RecordCacheMiss() }

// RecordCacheStore accounts for a newly cached asset of size bytes.
func RecordCacheStore(size int) { globalManager.Load().RecordCacheStore(size) }

// RecordBundleRead records a bundle lookup that took latencyMs.
func RecordBundleRead(latencyMs float64) { globalManager.Load().RecordBundleRead(latencyMs) }

// RecordBundleReadError increments the bundle read error counter.
func RecordBundleReadError() { globalManager.Load().RecordBundleReadError() }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.Load().RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.Load().RecordErrorByEndpoint(endpoint, method, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}
