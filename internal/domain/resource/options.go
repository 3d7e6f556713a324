package resource

import (
	"github.com/okian/swaggerui/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithRecorder sets the sink for cache and bundle metrics.
func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger sets the logger used for warm-up and read failures.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
