// Package resource resolves logical asset paths to bytes, caching every
// successful lookup for the lifetime of the process.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/swaggerui/internal/adapters/bundle"
	"github.com/okian/swaggerui/pkg/logger"
	"github.com/okian/swaggerui/pkg/metrics"
)

// Recorder receives cache and bundle events.
type Recorder interface {
	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheStore(size int)
	RecordBundleRead(latencyMs float64)
	RecordBundleReadError()
}

// globalRecorder forwards to the process-wide metrics registry.
type globalRecorder struct{}

func (globalRecorder) RecordCacheHit()             { metrics.RecordCacheHit() }
func (globalRecorder) RecordCacheMiss()            { metrics.RecordCacheMiss() }
func (globalRecorder) RecordCacheStore(size int)   { metrics.RecordCacheStore(size) }
func (globalRecorder) RecordBundleRead(ms float64) { metrics.RecordBundleRead(ms) }
func (globalRecorder) RecordBundleReadError()      { metrics.RecordBundleReadError() }

// Resolver maps normalized logical paths to asset bytes. Hits are served
// from memory; misses query the bundle and cache the first match. Misses
// are never cached. Safe for concurrent use.
type Resolver struct {
	bundle   bundle.Bundle
	cache    sync.Map // string -> []byte
	entries  atomic.Int64
	bytes    atomic.Int64
	recorder Recorder
	logger   logger.Logger
}

// NewResolver creates a Resolver backed by b.
func NewResolver(b bundle.Bundle, opts ...Option) *Resolver {
	if b == nil {
		panic("bundle is nil")
	}
	r := &Resolver{
		bundle:   b,
		recorder: globalRecorder{},
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the bytes for name. The returned slice is shared with
// the cache and must not be modified.
func (r *Resolver) Resolve(ctx context.Context, name string) ([]byte, error) {
	if v, ok := r.cache.Load(name); ok {
		r.recorder.RecordCacheHit()
		return v.([]byte), nil
	}
	r.recorder.RecordCacheMiss()

	start := time.Now()
	found, err := r.bundle.Find(ctx, name)
	switch {
	case errors.Is(err, bundle.ErrInvalidName):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case err != nil:
		r.recorder.RecordBundleReadError()
		return nil, fmt.Errorf("%w: %s: %w", ErrBundleRead, name, err)
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := readResource(found[0])
	if err != nil {
		r.recorder.RecordBundleReadError()
		r.logger.Error(ctx, "bundle read failed",
			logger.String("path", name),
			logger.String("origin", found[0].Origin()),
			logger.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrBundleRead, name, err)
	}
	r.recorder.RecordBundleRead(float64(time.Since(start).Microseconds()) / 1000)

	// Concurrent misses may all read; the first store wins and the bytes
	// are identical because the bundle does not change.
	actual, loaded := r.cache.LoadOrStore(name, data)
	if !loaded {
		r.entries.Add(1)
		r.bytes.Add(int64(len(data)))
		r.recorder.RecordCacheStore(len(data))
	}
	return actual.([]byte), nil
}

// Cached reports whether name is already in the cache.
func (r *Resolver) Cached(name string) bool {
	_, ok := r.cache.Load(name)
	return ok
}

// Len returns the number of cached assets.
func (r *Resolver) Len() int {
	return int(r.entries.Load())
}

// Size returns the total number of cached bytes.
func (r *Resolver) Size() int64 {
	return r.bytes.Load()
}

func readResource(res bundle.Resource) ([]byte, error) {
	rc, err := res.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
