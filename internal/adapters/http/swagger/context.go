package swagger

import (
	"context"
	"net/http"
)

type mountPrefixKey struct{}

// WithMountPrefix records the path prefix the server is mounted under.
func WithMountPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, mountPrefixKey{}, prefix)
}

// MountPrefix returns the prefix stored by WithMountPrefix, or "".
func MountPrefix(ctx context.Context) string {
	p, _ := ctx.Value(mountPrefixKey{}).(string)
	return p
}

func withMountPrefix(prefix string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithMountPrefix(r.Context(), prefix)))
	})
}
