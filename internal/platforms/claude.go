package platforms

import "context"

const claudeModel = "anthropic/claude-3.5-sonnet"

// ClaudePlatform asks Claude through OpenRouter.
type ClaudePlatform struct {
	client *OpenRouterClient
}

// NewClaudePlatform creates a new Claude platform client.
func NewClaudePlatform(client *OpenRouterClient) *ClaudePlatform {
	return &ClaudePlatform{client: client}
}

// Name returns the platform identifier.
func (c *ClaudePlatform) Name() string {
	return "claude"
}

// IsEnabled returns whether the OpenRouter gateway is configured.
func (c *ClaudePlatform) IsEnabled() bool {
	return c.client.Enabled()
}

// Ask poses the query to Claude.
func (c *ClaudePlatform) Ask(ctx context.Context, query string) (*Response, error) {
	return c.client.ChatCompletion(ctx, claudeModel, query)
}
