// Package llm - Gemini provider via langchaingo.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GoogleAIClient implements the Client interface over langchaingo's
// Google AI bindings.
type GoogleAIClient struct {
	Model string
	llm   *googleai.GoogleAI
}

// NewGoogleAIClient creates a Gemini-backed client.
func NewGoogleAIClient(ctx context.Context, apiKey, model string) (*GoogleAIClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	g, err := googleai.New(
		ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &GoogleAIClient{Model: model, llm: g}, nil
}

// Chat sends a system+user exchange and returns the first candidate.
func (c *GoogleAIClient) Chat(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	resp, err := c.llm.GenerateContent(ctx, content, llms.WithTemperature(0.7))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
