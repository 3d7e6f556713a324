package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/okian/swaggerui/internal/adapters/bundle"
	service "github.com/okian/swaggerui/internal/app"
	"github.com/okian/swaggerui/internal/domain/resource"
	"github.com/okian/swaggerui/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.Len(), ShouldEqual, 0)
			So(svc.Size(), ShouldEqual, 0)
		})

		Convey("Then handler access should fail until started", func() {
			_, err := svc.Handler()
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.Mount(http.NewServeMux(), ""), service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Asset(context.Background(), "index.html")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service using the embedded bundle", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithPreload([]string{"index.html", "missing.js"}, 2))
		defer svc.Stop()

		err := svc.Start(ctx)

		Convey("Then it should start and warm the cache", func() {
			So(err, ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.Len(), ShouldEqual, 1)
			So(svc.Size(), ShouldBeGreaterThan, 0)
		})

		Convey("Then starting twice should be a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("Then themed assets should resolve through the theme directory", func() {
			body, err := svc.Asset(ctx, "/theme/css/theme.css?v=1")
			So(err, ShouldBeNil)
			So(len(body), ShouldBeGreaterThan, 0)
		})

		Convey("Then traversal should be reported as not found", func() {
			_, err := svc.Asset(ctx, "../go.mod")
			So(errors.Is(err, resource.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then the mounted handler should serve the UI", func() {
			mux := http.NewServeMux()
			So(svc.Mount(mux, "/docs"), ShouldBeNil)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/swagger-ui/index.html", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")

			rec = httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/swagger-ui", nil))
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(rec.Header().Get("Location"), ShouldEqual, "swagger-ui/index.html?url=/docs/swagger.json")
		})
	})
}

func TestService_BundleOverride(t *testing.T) {
	Convey("Given a directory bundle layered over the embedded one", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		root := filepath.Join(dir, "swagger-ui")
		So(os.MkdirAll(root, 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(root, "index.html"), []byte("custom"), 0o600), ShouldBeNil)

		svc := service.New(service.WithBundlePaths(dir))
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then the first layer should win", func() {
			body, err := svc.Asset(ctx, "index.html")
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "custom")
		})

		Convey("Then files missing from the first layer fall through", func() {
			body, err := svc.Asset(ctx, "css/swagger-ui.css")
			So(err, ShouldBeNil)
			So(len(body), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a custom embedded bundle and no fallback", t, func() {
		ctx := context.Background()
		fsys := fstest.MapFS{"ui/index.html": {Data: []byte("mapped")}}
		svc := service.New(service.WithEmbedded(fsys, "ui"), service.WithTheme("material"))
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		body, err := svc.Asset(ctx, "index.html")
		So(err, ShouldBeNil)
		So(string(body), ShouldEqual, "mapped")

		_, err = svc.Asset(ctx, "css/swagger-ui.css")
		So(errors.Is(err, resource.ErrNotFound), ShouldBeTrue)
	})
}

func TestService_StartErrors(t *testing.T) {
	Convey("Given a service with a bundle path that does not exist", t, func() {
		svc := service.New(service.WithBundlePaths(filepath.Join(t.TempDir(), "nope")))
		err := svc.Start(context.Background())

		Convey("Then start should fail with a bundle error", func() {
			So(errors.Is(err, bundle.ErrOpenBundle), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a service with an unsafe theme", t, func() {
		svc := service.New(service.WithTheme("../x"))
		err := svc.Start(context.Background())

		Convey("Then start should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Len(), ShouldEqual, 0)
			})

			Convey("Then stopping again should be safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}
