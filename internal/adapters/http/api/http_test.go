package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/swaggerui/internal/adapters/http/api"
	"github.com/okian/swaggerui/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

type mockCache struct {
	n    int
	size int64
}

func (m mockCache) Len() int    { return m.n }
func (m mockCache) Size() int64 { return m.size }

func TestHealth(t *testing.T) {
	Convey("Given registered API routes", t, func() {
		mux := http.NewServeMux()
		api.NewServer(mockCache{n: 3, size: 2048}).Register(context.Background(), mux)

		Convey("When /healthz is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

			Convey("Then it should report the cache state", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body["cached_assets"], ShouldEqual, 3)
				So(body["cached_bytes"], ShouldEqual, 2048)
			})
		})

		Convey("When /healthz receives a POST", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/healthz", http.NoBody))

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When /metrics is requested after some traffic", func() {
			metrics.RecordCacheHit()
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

			Convey("Then it should expose the service metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "swaggerui_resources_cache_hits_total")
			})
		})
	})
}

func TestMetricsDisabled(t *testing.T) {
	Convey("Given API routes without metrics", t, func() {
		mux := http.NewServeMux()
		api.NewServer(nil, api.WithMetrics(false)).Register(context.Background(), mux)

		Convey("Then /metrics should not be routed", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And /healthz should still answer", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestSpecPassthrough(t *testing.T) {
	Convey("Given a documentation file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "swagger.json")
		doc := []byte(`{"swagger":"2.0","info":{"title":"svc"}}`)
		So(os.WriteFile(path, doc, 0o644), ShouldBeNil)

		loaded, err := api.LoadSpec(path)
		So(err, ShouldBeNil)

		mux := http.NewServeMux()
		api.NewServer(mockCache{}, api.WithSpec("/api/swagger.json", loaded)).Register(context.Background(), mux)

		Convey("When it is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/swagger.json", http.NoBody))

			Convey("Then it should be served unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Bytes(), ShouldResemble, doc)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			})
		})
	})

	Convey("Given a missing documentation file", t, func() {
		_, err := api.LoadSpec(filepath.Join(t.TempDir(), "none.json"))

		Convey("Then loading should fail", func() {
			So(err, ShouldWrap, api.ErrLoadSpec)
		})
	})

	Convey("Given a nil mux", t, func() {
		So(func() { api.NewServer(mockCache{}).Register(context.Background(), nil) }, ShouldPanic)
	})
}
