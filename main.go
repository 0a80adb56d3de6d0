// main.go - Standalone lite analysis server (deterministic engine only)
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/domain/services"
	"chatguard-lab/pkg/logger"
)

// The lite server exposes the detection engine without Redis, auth
// middleware stacks or AI narrative. Useful for local runs and demos;
// the full service lives in cmd/api.

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

var (
	contentAnalyzer *services.ContentAnalyzer
	chatAnalyzer    *services.ChatAnalyzer
	apiKey          string
)

func init() {
	engineLog := logger.NewDevelopment()
	contentAnalyzer = services.NewContentAnalyzer(engineLog)
	synthesizer := services.NewReportSynthesizer(nil, 0, engineLog)
	chatAnalyzer = services.NewChatAnalyzer(contentAnalyzer, synthesizer, 0, engineLog)

	apiKey = os.Getenv("API_KEY")
	if apiKey == "" {
		apiKey = "demo-key-12345"
		log.Println("WARNING: Using default API key. Set API_KEY environment variable in production!")
	}
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

func authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" {
			key = r.URL.Query().Get("api_key")
		}

		if key != apiKey {
			respondWithError(w, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}

		next(w, r)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ============================================================================
// HANDLERS
// ============================================================================

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Analysis engine operational",
		Data: map[string]interface{}{
			"timestamp": time.Now(),
		},
	})
}

func handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := contentAnalyzer.Analyze(models.TextSample{Text: req.Text})

	respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

func handleAnalyzeChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID       string                      `json:"chat_id"`
		Messages     []models.TextSample         `json:"messages"`
		Participants []models.ParticipantProfile `json:"participants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		respondWithError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}

	report := chatAnalyzer.AnalyzeChat(r.Context(), req.ChatID, req.Messages, req.Participants)

	respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    report,
	})
}

func handleGetPatterns(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    contentAnalyzer.Keywords().Vocabulary(),
	})
}

// ============================================================================
// HELPERS
// ============================================================================

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, APIResponse{
		Success: false,
		Error:   message,
	})
}

// ============================================================================
// MAIN
// ============================================================================

func main() {
	router := mux.NewRouter()

	// Public endpoints
	router.HandleFunc("/health", handleHealth).Methods("GET")

	// Protected endpoints
	router.HandleFunc("/api/v1/analyze/text", authMiddleware(handleAnalyzeText)).Methods("POST")
	router.HandleFunc("/api/v1/analyze/chat", authMiddleware(handleAnalyzeChat)).Methods("POST")
	router.HandleFunc("/api/v1/patterns", authMiddleware(handleGetPatterns)).Methods("GET")

	handler := corsMiddleware(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	log.Printf("Lite analysis server starting on port %s", port)
	log.Printf("API Key: %s", apiKey)

	srv := &http.Server{
		Handler:      handler,
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Fatal(srv.ListenAndServe())
}
