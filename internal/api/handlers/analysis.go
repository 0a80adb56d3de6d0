package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/infrastructure/cache"
)

// AnalyzeTextRequest is the body for single-text analysis
type AnalyzeTextRequest struct {
	MessageID string `json:"message_id,omitempty"`
	SenderID  string `json:"sender_id,omitempty"`
	Text      string `json:"text"`
}

// AnalyzeText runs the full detection pipeline over one text payload.
// Results are cached by content hash when Redis is available.
func (h *Handlers) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cacheKey := cache.KeyResultPrefix + cache.ContentHash(req.Text)
	if h.cacheEnabled() {
		var cached models.ContentAnalysis
		if err := h.redis.GetJSON(r.Context(), cacheKey, &cached); err == nil {
			h.respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result := h.content.Analyze(models.TextSample{
		MessageID: req.MessageID,
		SenderID:  req.SenderID,
		Text:      req.Text,
	})

	if h.cacheEnabled() {
		if err := h.redis.SetJSON(r.Context(), cacheKey, result, h.cfg.Analysis.ResultCacheTTL); err != nil {
			h.logger.Debug().Err(err).Msg("failed to cache analysis result")
		}
	}
	h.bumpStats(r.Context(), result.Findings)

	h.respondJSON(w, http.StatusOK, result)
}

// Patterns exposes the threat keyword vocabulary by tier
func (h *Handlers) Patterns(w http.ResponseWriter, r *http.Request) {
	vocab := h.content.Keywords().Vocabulary()

	tiers := make(map[string][]string, len(vocab))
	for tier, words := range vocab {
		tiers[string(tier)] = words
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"tiers": tiers,
	})
}

func (h *Handlers) cacheEnabled() bool {
	return h.redis != nil && h.cfg.Analysis.CacheResults
}

// bumpStats updates the Redis analysis counters, best-effort
func (h *Handlers) bumpStats(ctx context.Context, findings models.ThreatFindings) {
	if h.redis == nil {
		return
	}
	h.redis.BumpCounter(ctx, cache.KeyStatsTexts)
	if !findings.Empty() {
		h.redis.BumpCounter(ctx, cache.KeyStatsThreats)
	}
}
