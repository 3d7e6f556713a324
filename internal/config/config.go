// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Defaults live in New; Load layers a YAML file and SWAGGERUI_* env vars on top.
//   - Load reads a blank theme, validation url or bundle root as unset.
//   - Everything is validated once at startup; any other blank required
//     value is ErrMissingConfig.
package config

import "strings"

// Default values mirrored by the swagger-ui server.
const (
	DefaultTheme         = "swagger"
	DefaultValidationURL = "http://online.swagger.io/validator/debug"
	DefaultBundleRoot    = "swagger-ui"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// LogFile optionally redirects logs to a size-rotated file.
	LogFile string `koanf:"log_file"`

	// LogMaxSizeMB, LogMaxBackups and LogCompress tune LogFile rotation.
	LogMaxSizeMB  int  `koanf:"log_max_size_mb" validate:"gte=0"`
	LogMaxBackups int  `koanf:"log_max_backups" validate:"gte=0"`
	LogCompress   bool `koanf:"log_compress"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// ContextPath overrides the base path of swagger.json in the UI redirect.
	ContextPath string `koanf:"context_path"`

	// MountPrefix is where the UI is mounted; the UI answers at MountPrefix + "/swagger-ui".
	MountPrefix string `koanf:"mount_prefix"`

	// Theme picks the theme directory: "theme/<Theme>".
	Theme string `koanf:"theme" validate:"required,path_segment"`

	// ValidationURL is exposed to the UI through settings.js.
	ValidationURL string `koanf:"validation_url" validate:"required,url"`

	// BundleRoot is the directory inside every bundle holding the UI files.
	BundleRoot string `koanf:"bundle_root" validate:"required"`

	// BundlePaths are extra directories or zip/jar archives searched before
	// the embedded bundle.
	BundlePaths []string `koanf:"bundle_paths"`

	// SpecFile optionally serves a pre-generated swagger.json.
	SpecFile string `koanf:"spec_file"`

	// Preload lists assets (or glob patterns) warmed into the cache at start.
	Preload []string `koanf:"preload"`

	// PreloadWorkers bounds warm-up concurrency.
	PreloadWorkers int `koanf:"preload_workers" validate:"gte=0"`

	// MetricsEnabled exposes /metrics and turns on recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every series name.
	MetricsNamespace string `koanf:"metrics_namespace" validate:"required,metric_name"`
	MetricsSubsystem string `koanf:"metrics_subsystem" validate:"omitempty,metric_name"`

	// MetricsBuckets are the HTTP latency buckets in milliseconds; empty keeps
	// the built-in set.
	MetricsBuckets []float64 `koanf:"metrics_buckets" validate:"dive,gt=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		LogMaxSizeMB:     100,
		LogMaxBackups:    5,
		Addr:             ":9080",
		Theme:            DefaultTheme,
		ValidationURL:    DefaultValidationURL,
		BundleRoot:       DefaultBundleRoot,
		Preload:          []string{"index.html"},
		PreloadWorkers:   4,
		MetricsEnabled:   true,
		MetricsNamespace: "swaggerui",
		MetricsSubsystem: "resources",
	}
}

// SpecPath is where swagger.json is served, derived from the context path
// or, when blank, the mount prefix.
func (c *Config) SpecPath() string {
	base := c.ContextPath
	if base == "" {
		base = c.MountPrefix
	}
	return normalizePath(base) + "/swagger.json"
}

// fallback restores UI defaults that were supplied blank. A blank theme,
// validation url or bundle root reads as unset.
func (c *Config) fallback(defaults *Config) {
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = defaults.Theme
	}
	if strings.TrimSpace(c.ValidationURL) == "" {
		c.ValidationURL = defaults.ValidationURL
	}
	if strings.TrimSpace(c.BundleRoot) == "" {
		c.BundleRoot = defaults.BundleRoot
	}
}
