package platforms

import "context"

const chatGPTModel = "openai/gpt-4.1"

// ChatGPTPlatform asks GPT-4.1 through OpenRouter.
type ChatGPTPlatform struct {
	client *OpenRouterClient
}

// NewChatGPTPlatform creates a new ChatGPT platform client.
func NewChatGPTPlatform(client *OpenRouterClient) *ChatGPTPlatform {
	return &ChatGPTPlatform{client: client}
}

// Name returns the platform identifier.
func (c *ChatGPTPlatform) Name() string {
	return "chatgpt"
}

// IsEnabled returns whether the OpenRouter gateway is configured.
func (c *ChatGPTPlatform) IsEnabled() bool {
	return c.client.Enabled()
}

// Ask poses the query to GPT-4.1.
func (c *ChatGPTPlatform) Ask(ctx context.Context, query string) (*Response, error) {
	return c.client.ChatCompletion(ctx, chatGPTModel, query)
}
