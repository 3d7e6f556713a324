package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/swaggerui/internal/config"
	"github.com/okian/swaggerui/internal/domain/resource"
	"github.com/okian/swaggerui/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuildHandler(t *testing.T) {
	convey.Convey("Given a started service and a swagger document", t, func() {
		ctx := context.Background()
		specPath := filepath.Join(t.TempDir(), "swagger.json")
		convey.So(os.WriteFile(specPath, []byte(`{"swagger":"2.0"}`), 0o600), convey.ShouldBeNil)

		cfg := config.New()
		cfg.MountPrefix = "/docs"
		cfg.SpecFile = specPath
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		svc := newService(cfg, logger.Nop(), true)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler, err := buildHandler(ctx, cfg, svc, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		srv := httptest.NewServer(handler)
		defer srv.Close()

		client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}}

		convey.Convey("Then the UI root should redirect to the entry page", func() {
			resp, err := client.Get(srv.URL + "/docs/swagger-ui")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusSeeOther)
			convey.So(resp.Header.Get("Location"), convey.ShouldEqual, "swagger-ui/index.html?url=/docs/swagger.json")
			convey.So(resp.Header.Get("X-Request-ID"), convey.ShouldNotBeEmpty)
		})

		convey.Convey("Then dot segments should be refused instead of redirected", func() {
			resp, err := client.Get(srv.URL + "/docs/swagger-ui/css/../index.html")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
			convey.So(resp.Header.Get("Location"), convey.ShouldBeEmpty)
		})

		convey.Convey("Then the document should be served where the redirect points", func() {
			resp, err := client.Get(srv.URL + "/docs/swagger.json")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			var doc map[string]any
			convey.So(json.NewDecoder(resp.Body).Decode(&doc), convey.ShouldBeNil)
			convey.So(doc["swagger"], convey.ShouldEqual, "2.0")
		})

		convey.Convey("Then health should report the warmed cache", func() {
			resp, err := client.Get(srv.URL + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			var body struct {
				Status       string `json:"status"`
				CachedAssets int    `json:"cached_assets"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)
			convey.So(body.Status, convey.ShouldEqual, "ok")
			convey.So(body.CachedAssets, convey.ShouldBeGreaterThanOrEqualTo, 1)
		})

		convey.Convey("Then metrics should be exposed", func() {
			resp, err := client.Get(srv.URL + "/metrics")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
		})
	})

	convey.Convey("Given a swagger document that does not exist", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.SpecFile = filepath.Join(t.TempDir(), "missing.json")

		svc := newService(cfg, logger.Nop(), false)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		_, err := buildHandler(ctx, cfg, svc, logger.Nop())
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestConfigureMetrics(t *testing.T) {
	convey.Convey("Given a config with a custom metrics namespace", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.MetricsNamespace = "docs"
		cfg.MetricsBuckets = []float64{5, 50, 500}
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		configureMetrics(cfg)
		defer configureMetrics(config.New())

		svc := newService(cfg, logger.Nop(), false)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler, err := buildHandler(ctx, cfg, svc, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger-ui/index.html", http.NoBody))
		convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

		convey.Convey("Then /metrics should expose series under that namespace", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "docs_resources_cache_misses_total")
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, `le="500"`)
			convey.So(rec.Body.String(), convey.ShouldNotContainSubstring, "swaggerui_resources_")
		})
	})
}

func TestInitLogging(t *testing.T) {
	convey.Convey("Given a config logging to a rotated json file", t, func() {
		cfg := config.New()
		cfg.LogFormat = "json"
		cfg.LogFile = filepath.Join(t.TempDir(), "logs", "swaggerui.log")
		cfg.LogMaxSizeMB = 1
		cfg.LogMaxBackups = 2
		cfg.LogCompress = true
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		convey.So(initLogging(cfg), convey.ShouldBeNil)
		defer func() { _ = logger.Init() }()

		logger.Get().Info(context.Background(), "rotated output")
		convey.So(logger.Sync(), convey.ShouldBeNil)

		convey.Convey("Then the message should land in the file", func() {
			data, err := os.ReadFile(cfg.LogFile)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, `"msg":"rotated output"`)
		})
	})
}

func TestResolveCommand(t *testing.T) {
	convey.Convey("Given the CLI with a material theme config", t, func() {
		cfgPath := writeConfig(t, "theme: material\n")

		convey.Convey("When resolving a themed asset", func() {
			var out, errOut bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs([]string{"--config", cfgPath, "resolve", "/theme/css/theme.css?v=2"})

			err := cmd.Execute()

			convey.Convey("Then the material stylesheet should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Len(), convey.ShouldBeGreaterThan, 0)
				convey.So(strings.ToLower(out.String()), convey.ShouldContainSubstring, "material")
			})
		})

		convey.Convey("When resolving a missing asset", func() {
			var out, errOut bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs([]string{"--config", cfgPath, "resolve", "nope.js"})

			err := cmd.Execute()

			convey.Convey("Then it should fail with not found", func() {
				convey.So(errors.Is(err, resource.ErrNotFound), convey.ShouldBeTrue)
				convey.So(out.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When resolve is given no path", func() {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"resolve"})

			convey.So(cmd.Execute(), convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a config file that does not exist", t, func() {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "resolve", "index.html"})

		err := cmd.Execute()
		convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
	})
}
