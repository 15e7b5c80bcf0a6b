package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/beat-sheets/pkg/handlers/respond"
	"github.com/de-tools/beat-sheets/pkg/services/ratelimit"
	"github.com/rs/zerolog"
)

// CallerKey names the rate limit bucket of a request. An empty key skips the check.
type CallerKey func(r *http.Request) string

// ByClientIP buckets requests by remote address, so it also counts callers
// that fail authentication.
func ByClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// ByIdentity buckets requests by the identity Auth stored in the context
func ByIdentity(r *http.Request) string {
	if id, ok := IdentityFrom(r.Context()); ok {
		return "id:" + id
	}
	return ""
}

// RateLimit rejects callers over their allowance with 429
func RateLimit(limiter ratelimit.Limiter, window time.Duration, callerKey CallerKey) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := callerKey(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(r.Context(), key) {
				zerolog.Ctx(r.Context()).Warn().
					Str("caller", key).
					Msg("rate limit exceeded")
				w.Header().Set("Retry-After", retryAfter)
				respond.Error(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
