package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"chatguard-lab/internal/infrastructure/cache"
	"chatguard-lab/pkg/logger"
)

// RateLimiter enforces a per-client fixed-window limit backed by Redis.
// When Redis errors, requests pass through rather than failing closed.
func RateLimiter(redis *cache.RedisCache, requestsPerMinute int, log *logger.Logger) func(next http.Handler) http.Handler {
	log = log.WithComponent("ratelimit")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientAddr(r)

			allowed, remaining, resetTime, err := redis.CheckRateLimit(
				r.Context(), clientID, int64(requestsPerMinute), time.Minute)
			if err != nil {
				log.Warn().Err(err).Msg("rate limit check failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
