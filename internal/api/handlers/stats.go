package handlers

import (
	"net/http"

	"chatguard-lab/internal/infrastructure/cache"
)

// Stats returns cumulative analysis counters. Zeroes when Redis is disabled.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]int64{
		"texts_analyzed":   0,
		"chats_analyzed":   0,
		"threats_detected": 0,
	}

	if h.redis != nil {
		stats["texts_analyzed"] = h.redis.CounterValue(r.Context(), cache.KeyStatsTexts)
		stats["chats_analyzed"] = h.redis.CounterValue(r.Context(), cache.KeyStatsChats)
		stats["threats_detected"] = h.redis.CounterValue(r.Context(), cache.KeyStatsThreats)
	}

	h.respondJSON(w, http.StatusOK, stats)
}
