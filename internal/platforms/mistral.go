package platforms

import "context"

const mistralModel = "mistralai/mistral-large"

// MistralPlatform asks Mistral Large through OpenRouter.
type MistralPlatform struct {
	client *OpenRouterClient
}

// NewMistralPlatform creates a new Mistral platform client.
func NewMistralPlatform(client *OpenRouterClient) *MistralPlatform {
	return &MistralPlatform{client: client}
}

// Name returns the platform identifier.
func (m *MistralPlatform) Name() string {
	return "mistral"
}

// IsEnabled returns whether the OpenRouter gateway is configured.
func (m *MistralPlatform) IsEnabled() bool {
	return m.client.Enabled()
}

// Ask poses the query to Mistral Large.
func (m *MistralPlatform) Ask(ctx context.Context, query string) (*Response, error) {
	return m.client.ChatCompletion(ctx, mistralModel, query)
}
