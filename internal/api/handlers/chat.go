package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/infrastructure/cache"
)

// AnalyzeChatRequest is the body for whole-conversation analysis
type AnalyzeChatRequest struct {
	ChatID       string                      `json:"chat_id,omitempty"`
	Messages     []models.TextSample         `json:"messages"`
	Participants []models.ParticipantProfile `json:"participants,omitempty"`
}

// AnalyzeChat runs batch analysis over a conversation dump: per-message
// findings, reply graph, aggregate risk and the formatted report.
func (h *Handlers) AnalyzeChat(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Messages) == 0 {
		h.respondError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if max := h.cfg.Analysis.MaxBatchSize; max > 0 && len(req.Messages) > max {
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("batch too large: %d messages, limit is %d", len(req.Messages), max))
		return
	}

	report := h.chat.AnalyzeChat(r.Context(), req.ChatID, req.Messages, req.Participants)

	if h.redis != nil {
		h.redis.BumpCounter(r.Context(), cache.KeyStatsChats)
	}

	h.respondJSON(w, http.StatusOK, report)
}
