package platforms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterClient is the shared chat-completions transport for every
// platform routed through the OpenRouter gateway.
type OpenRouterClient struct {
	client *resty.Client
	apiKey string
}

// NewOpenRouterClient creates the gateway client. An empty API key yields
// a disabled client; platforms built on it report IsEnabled false.
func NewOpenRouterClient(apiKey string, timeout time.Duration) *OpenRouterClient {
	client := resty.New().
		SetTimeout(timeout).
		SetBaseURL(openRouterBaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://scaile.tech").
		SetHeader("X-Title", "OpenAnalytics")

	return &OpenRouterClient{client: client, apiKey: apiKey}
}

// Enabled reports whether an API key is configured.
func (c *OpenRouterClient) Enabled() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations,omitempty"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatCompletion sends a single-turn user prompt to the given model and
// returns the answer text plus any citations the provider attached.
func (c *OpenRouterClient) ChatCompletion(ctx context.Context, model, prompt string) (*Response, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("OpenRouter API key not configured")
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatRequest{
			Model:     model,
			Messages:  []chatMessage{{Role: "user", Content: prompt}},
			MaxTokens: 1024,
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("openrouter request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("openrouter returned status %d for model %s", resp.StatusCode(), model)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("openrouter error for model %s: %s", model, result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("openrouter returned no choices for model %s", model)
	}

	logrus.Debugf("OpenRouter answered via %s (%d chars)", model, len(result.Choices[0].Message.Content))

	return &Response{
		Text:       result.Choices[0].Message.Content,
		Model:      model,
		SourceURLs: result.Citations,
	}, nil
}

// baseURL is overridable for tests.
func (c *OpenRouterClient) setBaseURL(url string) {
	c.client.SetBaseURL(url)
}
