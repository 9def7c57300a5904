package platforms

import "context"

const perplexityModel = "perplexity/sonar-pro"

// PerplexityPlatform asks Perplexity's sonar-pro model through OpenRouter.
// Sonar answers carry citations, which become the result's source URLs.
type PerplexityPlatform struct {
	client *OpenRouterClient
}

// NewPerplexityPlatform creates a new Perplexity platform client.
func NewPerplexityPlatform(client *OpenRouterClient) *PerplexityPlatform {
	return &PerplexityPlatform{client: client}
}

// Name returns the platform identifier.
func (p *PerplexityPlatform) Name() string {
	return "perplexity"
}

// IsEnabled returns whether the OpenRouter gateway is configured.
func (p *PerplexityPlatform) IsEnabled() bool {
	return p.client.Enabled()
}

// Ask poses the query to sonar-pro.
func (p *PerplexityPlatform) Ask(ctx context.Context, query string) (*Response, error) {
	return p.client.ChatCompletion(ctx, perplexityModel, query)
}
