package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chatguard-lab/internal/config"
	"chatguard-lab/pkg/logger"
)

// NarrativeClient requests a short natural-language narrative for a set of
// findings from an external LLM API. It is always optional: callers must
// treat any error as "narrative unavailable" and fall back to the
// deterministic summary.
type NarrativeClient struct {
	httpClient *http.Client
	config     config.NarrativeConfig
	logger     *logger.Logger
}

// NewNarrativeClient creates a narrative client
func NewNarrativeClient(cfg config.NarrativeConfig, log *logger.Logger) *NarrativeClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3 // low temperature for factual analysis
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Model == "" {
		if cfg.Provider == "claude" {
			cfg.Model = "claude-3-sonnet-20240229"
		} else {
			cfg.Model = "gpt-4-turbo"
		}
	}

	return &NarrativeClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     log.WithComponent("narrative-client"),
	}
}

const systemPrompt = `You are an OSINT analyst assistant. You receive a structured
summary of automated threat detection over chat messages: coordinate matches,
threat keyword counts by tier, phone numbers, cryptocurrency addresses and the
computed risk level. Write a short plain-prose narrative (3-5 sentences) for a
human analyst: what was found, why the risk level is what it is, and what to
look at first. Do not invent findings that are not in the summary.`

// GenerateNarrative asks the configured provider for a narrative summarizing
// the findings. The excerpt gives the model a bounded taste of the raw text.
func (c *NarrativeClient) GenerateNarrative(ctx context.Context, summary, excerpt string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Detection summary:\n")
	sb.WriteString(summary)
	if excerpt != "" {
		sb.WriteString("\n\nSample excerpt:\n")
		sb.WriteString(excerpt)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	switch c.config.Provider {
	case "claude":
		return c.callClaude(ctx, sb.String())
	case "openai":
		return c.callOpenAI(ctx, sb.String())
	default:
		return "", fmt.Errorf("unsupported narrative provider: %s", c.config.Provider)
	}
}

// callClaude makes a request to the Anthropic messages API
func (c *NarrativeClient) callClaude(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"system":      systemPrompt,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	body, err := c.post(ctx, "https://api.anthropic.com/v1/messages", reqBody, map[string]string{
		"x-api-key":         c.config.APIKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, part := range resp.Content {
		if part.Type == "text" {
			out.WriteString(part.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("empty narrative response")
	}
	return out.String(), nil
}

// callOpenAI makes a request to the OpenAI chat completions API
func (c *NarrativeClient) callOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
	}

	body, err := c.post(ctx, "https://api.openai.com/v1/chat/completions", reqBody, map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no narrative response")
	}
	return resp.Choices[0].Message.Content, nil
}

// post sends a JSON request and returns the raw response body
func (c *NarrativeClient) post(ctx context.Context, url string, payload any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("narrative API error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
