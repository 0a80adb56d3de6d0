package handlers

import (
	"encoding/json"
	"net/http"

	"chatguard-lab/internal/config"
	"chatguard-lab/internal/domain/services"
	"chatguard-lab/internal/infrastructure/cache"
	"chatguard-lab/pkg/logger"
)

// Dependencies carries everything the handlers need. Redis may be nil;
// handlers degrade to uncached, unthrottled operation.
type Dependencies struct {
	Config       *config.Config
	Logger       *logger.Logger
	Content      *services.ContentAnalyzer
	ChatAnalyzer *services.ChatAnalyzer
	Redis        *cache.RedisCache
}

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg     *config.Config
	logger  *logger.Logger
	content *services.ContentAnalyzer
	chat    *services.ChatAnalyzer
	redis   *cache.RedisCache
}

// New creates handlers with the given dependencies
func New(deps Dependencies) *Handlers {
	return &Handlers{
		cfg:     deps.Config,
		logger:  deps.Logger.WithComponent("handlers"),
		content: deps.Content,
		chat:    deps.ChatAnalyzer,
		redis:   deps.Redis,
	}
}

// respondJSON writes a JSON response with the given status
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes a JSON error response
func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
