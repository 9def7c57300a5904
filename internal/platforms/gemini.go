package platforms

import (
	"context"

	"github.com/scaile/openanalytics/internal/llm"
)

const geminiModel = "gemini-2.5-flash"

// GeminiPlatform asks Gemini through the native Google SDK rather than
// OpenRouter, so grounded answers keep their retrieval behavior.
type GeminiPlatform struct {
	client llm.Client
}

// NewGeminiPlatform creates a new Gemini platform client.
func NewGeminiPlatform(client llm.Client) *GeminiPlatform {
	return &GeminiPlatform{client: client}
}

// Name returns the platform identifier.
func (g *GeminiPlatform) Name() string {
	return "gemini"
}

// IsEnabled returns whether a Gemini API key was configured.
func (g *GeminiPlatform) IsEnabled() bool {
	return g.client != nil
}

// Ask poses the query to Gemini.
func (g *GeminiPlatform) Ask(ctx context.Context, query string) (*Response, error) {
	text, err := g.client.GenerateText(ctx, query)
	if err != nil {
		return nil, err
	}
	return &Response{Text: text, Model: geminiModel}, nil
}
