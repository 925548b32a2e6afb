// Package llm provides a small, pluggable chat client for the hosted
// advisory model, with sane env defaults. The advisor treats every client
// here as optional: a nil or failing client routes to the local pipeline.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var ErrModelDisabled = errors.New("model client disabled (missing key or base url)")

// Client is the minimal interface the advisor uses.
type Client interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// OpenRouterClient is an OpenAI-compatible HTTP chat client
// (OpenRouter, or any /chat/completions endpoint).
type OpenRouterClient struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

type chatReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatResp struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string      `json:"message"`
		Type    string      `json:"type,omitempty"`
		Code    interface{} `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int    `json:"index"`
	FinishReason string `json:"finish_reason"`
	Message      struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// NewClient builds a chat client from explicit settings. Provider is
// "openrouter" (the default, any OpenAI-compatible endpoint) or "googleai".
// Empty baseURL and model fall back to the provider defaults. Local hosts
// (localhost/127.0.0.1) allow an empty key, as does MODEL_ALLOW_NO_KEY=true.
func NewClient(provider, baseURL, apiKey, model string, timeout time.Duration) (Client, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	if provider == "googleai" {
		if apiKey == "" {
			return nil, ErrModelDisabled
		}
		if model == "" {
			model = "gemini-1.5-flash"
		}
		return NewGoogleAIClient(context.Background(), apiKey, model)
	}

	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	baseURL = normalizeBase(baseURL)
	if model == "" {
		model = "openai/gpt-4o-mini"
	}

	allowNoKey := strings.EqualFold(os.Getenv("MODEL_ALLOW_NO_KEY"), "true") ||
		strings.Contains(baseURL, "localhost") || strings.Contains(baseURL, "127.0.0.1")
	if apiKey == "" && !allowNoKey {
		return nil, ErrModelDisabled
	}

	return NewOpenRouterClient(baseURL, apiKey, model, timeout), nil
}

// NewFromEnv creates a client using relaxed env precedence.
// Provider: MODEL_PROVIDER in {openrouter (default), googleai}.
// Base URL precedence: OPENROUTER_API_URL > MODEL_BASE_URL > default OpenRouter.
// Key precedence: OPENROUTER_API_KEY > MODEL_API_KEY > GOOGLE_API_KEY > OPENAI_API_KEY.
func NewFromEnv() (Client, error) {
	key := firstNonEmpty(
		os.Getenv("OPENROUTER_API_KEY"),
		os.Getenv("MODEL_API_KEY"),
		os.Getenv("GOOGLE_API_KEY"),
		os.Getenv("OPENAI_API_KEY"),
	)
	base := firstNonEmpty(
		os.Getenv("OPENROUTER_API_URL"),
		os.Getenv("MODEL_BASE_URL"),
	)

	timeout := 12 * time.Second
	if v := strings.TrimSpace(os.Getenv("MODEL_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	return NewClient(os.Getenv("MODEL_PROVIDER"), base, key, os.Getenv("MODEL_NAME"), timeout)
}

// NewOpenRouterClient creates an OpenAI-compatible HTTP client.
func NewOpenRouterClient(baseURL, apiKey, model string, timeout time.Duration) *OpenRouterClient {
	if timeout == 0 {
		timeout = 12 * time.Second
	}
	transport := http.DefaultTransport
	if strings.EqualFold(os.Getenv("MODEL_DEBUG"), "true") {
		transport = newLoggingRT(transport)
	}
	return &OpenRouterClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		HTTP:    &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Chat sends a synchronous chat.completions request.
func (c *OpenRouterClient) Chat(ctx context.Context, system, user string) (string, error) {
	reqBody := chatReq{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   512,
		Temperature: 0.7,
	}
	return c.complete(ctx, reqBody)
}

func (c *OpenRouterClient) complete(ctx context.Context, reqBody chatReq) (string, error) {
	b, _ := json.Marshal(reqBody)

	endpoint := c.BaseURL + "/chat/completions"
	httpReq, _ := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	httpReq.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(c.APIKey) != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	var out chatResp
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("model decode failed: %w; raw=%s", err, strings.TrimSpace(string(body)))
	}
	if out.Error != nil {
		return "", errors.New(strings.TrimSpace(out.Error.Message))
	}
	if res.StatusCode/100 != 2 {
		return "", fmt.Errorf("model request failed: status %d", res.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("model: empty choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// ---------- shared helpers ----------

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// normalizeBase adds /v1 for local OpenAI-compatible servers if necessary.
func normalizeBase(u string) string {
	s := strings.TrimRight(strings.TrimSpace(u), "/")
	if s == "" {
		return s
	}
	isLocal := strings.Contains(s, "localhost") || strings.Contains(s, "127.0.0.1")
	if isLocal && !strings.HasSuffix(s, "/v1") {
		s += "/v1"
	}
	return s
}
