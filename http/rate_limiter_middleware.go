package http

import (
	"math"
	"net/http"
	"strconv"

	"loan-simulator/logging"
)

// RateLimitMiddleware keys the limiter on the resolved client address. With
// no trusted proxies that is the connection address, which the client
// cannot spoof through headers.
func RateLimitMiddleware(
	limiter *RateLimiter,
	clients *ClientIPResolver,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip := clients.ClientIP(r)

		allowed, retryAfter := limiter.Allow(ip)
		if !allowed {
			logging.FromContext(r.Context()).WithComponent(logging.ComponentRateLimit).
				WarnContext(r.Context(), "Rate limit exceeded", logging.FieldClientIP, ip)

			seconds := int(math.Ceil(retryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
