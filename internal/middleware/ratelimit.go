package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/roar-center/roar-web/internal/httpx"
)

// RateLimit rejects requests beyond perSecond (with burst) with the JSON 429 envelope.
// The limit is shared by every client of the wrapped routes.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				httpx.WriteError(r.Context(), w, httpx.TooManyRequests())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
