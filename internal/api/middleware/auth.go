package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"chatguard-lab/pkg/logger"
)

// APIKeyAuth validates the bearer token against the configured API key.
// An empty configured key disables authentication entirely.
func APIKeyAuth(apiKey string, log *logger.Logger) func(next http.Handler) http.Handler {
	log = log.WithComponent("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				log.Warn().Str("remote_addr", r.RemoteAddr).Msg("invalid API key")
				unauthorized(w, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
