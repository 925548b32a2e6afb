package llm

import "context"

// VisionClient is implemented by providers that accept an image alongside
// the prompt. Only the OpenAI-compatible client supports this today.
type VisionClient interface {
	Client
	ChatVision(ctx context.Context, prompt, imageDataURL string) (string, error)
}

// ChatVision sends a multimodal request with one inline image.
// imageDataURL is a data: URL (base64) or a fetchable https URL.
func (c *OpenRouterClient) ChatVision(ctx context.Context, prompt, imageDataURL string) (string, error) {
	parts := []map[string]any{
		{"type": "text", "text": prompt},
		{"type": "image_url", "image_url": map[string]string{"url": imageDataURL}},
	}
	reqBody := chatReq{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: parts}},
		MaxTokens:   768,
		Temperature: 0.2,
	}
	return c.complete(ctx, reqBody)
}
