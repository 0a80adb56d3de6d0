package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatguard-lab/internal/api"
	"chatguard-lab/internal/api/handlers"
	"chatguard-lab/internal/config"
	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/domain/services"
	"chatguard-lab/pkg/logger"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: "console"})
	cfg := &config.Config{}
	cfg.App.Name = "chatguard-lab-test"
	cfg.Auth.APIKey = apiKey
	cfg.Analysis.MaxBatchSize = 10
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.CORS.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type"}

	content := services.NewContentAnalyzer(log)
	synthesizer := services.NewReportSynthesizer(nil, 0, log)
	chat := services.NewChatAnalyzer(content, synthesizer, 0, log)

	h := handlers.New(handlers.Dependencies{
		Config:       cfg,
		Logger:       log,
		Content:      content,
		ChatAnalyzer: chat,
	})

	srv := httptest.NewServer(api.NewRouter(cfg, h, nil, log))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAnalysisRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t, "secret-key")

	resp, err := http.Post(srv.URL+"/api/v1/analysis/text", "application/json",
		strings.NewReader(`{"text":"hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAnalyzeTextEndpoint(t *testing.T) {
	srv := newTestServer(t, "secret-key")

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/analysis/text",
		strings.NewReader(`{"message_id":"m1","text":"бомба at 50.4501, 30.5234"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret-key")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result models.ContentAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Findings.Coordinates) != 1 {
		t.Errorf("coordinates = %d, want 1", len(result.Findings.Coordinates))
	}
	if result.Risk.Score != 45 { // 25 critical keyword + 20 coordinate
		t.Errorf("score = %d, want 45", result.Risk.Score)
	}
}

func TestAnalyzeChatEndpointRejectsOversizedBatch(t *testing.T) {
	srv := newTestServer(t, "")

	messages := make([]string, 0, 11)
	for i := 0; i < 11; i++ {
		messages = append(messages, `{"text":"hi"}`)
	}
	body := `{"chat_id":"c1","messages":[` + strings.Join(messages, ",") + `]}`

	resp, err := http.Post(srv.URL+"/api/v1/analysis/chat", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeChatEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	body := `{"chat_id":"c1","messages":[{"message_id":"m1","sender_id":"u1","text":"bomb"}]}`
	resp, err := http.Post(srv.URL+"/api/v1/analysis/chat", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report models.ThreatReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if len(report.Messages) != 1 {
		t.Errorf("messages = %d, want 1", len(report.Messages))
	}
	if report.FormattedReport == "" {
		t.Error("formatted report missing")
	}
}

func TestPatternsEndpoint(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/api/v1/analysis/patterns")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		Tiers map[string][]string `json:"tiers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Tiers["critical"]) == 0 {
		t.Error("critical tier vocabulary missing")
	}
}
