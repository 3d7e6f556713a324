package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// path_segment accepts a single directory name: no separators, no "..".
	err := v.RegisterValidation("path_segment", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		return !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register config validation: %v", err))
	}
	err = v.RegisterValidation("metric_name", func(fl validator.FieldLevel) bool {
		return metricName.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register config validation: %v", err))
	}
	return v
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate trims string settings and checks them. Required values that are
// blank yield ErrMissingConfig; malformed values yield ErrInvalidConfig.
func (c *Config) Validate() error {
	c.trim()

	err := validate.Struct(c)
	if err == nil {
		return c.checkBuckets()
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fieldName(fe))
		default:
			invalid = append(invalid, fmt.Sprintf("%s failed on %q", fieldName(fe), fe.Tag()))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(invalid, ", "))
}

// checkBuckets requires strictly increasing latency buckets.
func (c *Config) checkBuckets() error {
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must increase", ErrInvalidConfig)
		}
	}
	return nil
}

func (c *Config) trim() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.LogFile = strings.TrimSpace(c.LogFile)
	c.Addr = strings.TrimSpace(c.Addr)
	c.ContextPath = normalizePath(c.ContextPath)
	c.MountPrefix = normalizePath(c.MountPrefix)
	c.Theme = strings.TrimSpace(c.Theme)
	c.ValidationURL = strings.TrimSpace(c.ValidationURL)
	c.BundleRoot = strings.Trim(strings.TrimSpace(c.BundleRoot), "/")
	c.SpecFile = strings.TrimSpace(c.SpecFile)
	c.MetricsNamespace = strings.TrimSpace(c.MetricsNamespace)
	c.MetricsSubsystem = strings.TrimSpace(c.MetricsSubsystem)
	c.BundlePaths = compact(c.BundlePaths)
	c.Preload = compact(c.Preload)
}

// normalizePath guarantees a leading slash and no trailing one; blank stays blank.
func normalizePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// fieldName maps a struct field back to its config key.
func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "LogLevel":
		return "log_level"
	case "LogFormat":
		return "log_format"
	case "ValidationURL":
		return "validation_url"
	case "BundleRoot":
		return "bundle_root"
	case "PreloadWorkers":
		return "preload_workers"
	case "LogMaxSizeMB":
		return "log_max_size_mb"
	case "LogMaxBackups":
		return "log_max_backups"
	case "MetricsNamespace":
		return "metrics_namespace"
	case "MetricsSubsystem":
		return "metrics_subsystem"
	default:
		return strings.ToLower(fe.Field())
	}
}
