package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	EnvPrefix = "SWAGGERUI_"
	EnvConfig = "SWAGGERUI_CONFIG"
)

// listKeys are settings holding string lists.
var listKeys = map[string]struct{}{
	"bundle_paths":    {},
	"preload":         {},
	"metrics_buckets": {},
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SWAGGERUI_CONFIG is set
//  3. env (prefix SWAGGERUI_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvConfig))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file.
func LoadFile(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: SWAGGERUI_ADDR, SWAGGERUI_VALIDATION_URL, ...
	// Map env keys like SWAGGERUI_BUNDLE_ROOT -> bundle_root (flat keys);
	// list keys take comma-separated values.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The config file location is not itself a setting.
	k.Delete("config")

	cfg := *base
	// A supplied list replaces the default instead of merging into it.
	if k.Exists("preload") {
		cfg.Preload = nil
	}
	if k.Exists("bundle_paths") {
		cfg.BundlePaths = nil
	}
	if k.Exists("metrics_buckets") {
		cfg.MetricsBuckets = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.fallback(base)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList splits a comma-separated env value, dropping blank entries.
func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
