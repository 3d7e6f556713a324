package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Rotation defaults for file output.
const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 5
	defaultMaxAgeDays = 28
)

type options struct {
	format     string
	writer     io.Writer
	file       string
	maxSizeMB  int
	maxBackups int
	compress   bool
}

// Option configures Init.
type Option func(*options)

// WithFormat selects "text" or "json" output. Empty keeps the default.
func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = format
		}
	}
}

// WithWriter sends log output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithFile writes logs to path, rotated by size. Empty keeps the writer.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithRotation overrides size (MB) and backup limits for file output.
func WithRotation(maxSizeMB, maxBackups int, compress bool) Option {
	return func(o *options) {
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.compress = compress
	}
}

func newRotator(o *options) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(o.file), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	size := o.maxSizeMB
	if size <= 0 {
		size = defaultMaxSizeMB
	}
	backups := o.maxBackups
	if backups <= 0 {
		backups = defaultMaxBackups
	}
	return &lumberjack.Logger{
		Filename:   o.file,
		MaxSize:    size,
		MaxBackups: backups,
		MaxAge:     defaultMaxAgeDays,
		Compress:   o.compress,
		LocalTime:  true,
	}, nil
}
