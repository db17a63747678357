package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ErrUnavailable is returned whenever the upstream text-generation service
// cannot produce a result (network failure, non-200 response, empty body).
var ErrUnavailable = errors.New("ai service unavailable")

// Generator produces assistance text from an opaque prompt. The HTTP client
// below implements it against an Anthropic-style messages API; tests swap in
// a stub.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClientConfig carries the upstream API settings.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ConfigFromEnv reads the AI collaborator config from env vars. An empty
// APIKey means no upstream is configured and the rule-based fallback applies.
func ConfigFromEnv() ClientConfig {
	url := os.Getenv("AI_API_URL")
	if url == "" {
		url = "https://api.anthropic.com/v1/messages"
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	return ClientConfig{
		APIKey:  os.Getenv("AI_API_KEY"),
		BaseURL: url,
		Model:   model,
		Timeout: 30 * time.Second,
	}
}

// Client calls the upstream messages API.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends the prompt upstream and returns the first text block of the
// response. Every failure mode collapses into ErrUnavailable; the caller is
// not expected to distinguish them.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: 1000,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upstream status %d", ErrUnavailable, resp.StatusCode)
	}

	var out messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(out.Content) == 0 || out.Content[0].Text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return out.Content[0].Text, nil
}
