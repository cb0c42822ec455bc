package middleware

import (
	"net/http"

	"github.com/divluffy/lightforgaza/config"
)

// MaxBodyMiddleware enforces the configured maximum request body size.
func MaxBodyMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	max := cfg.MaxBodyBytes
	if max <= 0 {
		max = 1 << 20
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}
