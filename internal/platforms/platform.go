// Package platforms implements the AI answer-engine clients used for
// visibility measurement. Four platforms ride the OpenRouter gateway;
// gemini uses the native SDK.
package platforms

import "context"

// Response is one platform's answer to a consumer query.
type Response struct {
	Text       string
	Model      string
	SourceURLs []string
}

// Platform is an AI answer engine that can be asked a consumer question.
// Platforms without credentials report IsEnabled false and are skipped.
type Platform interface {
	// Name returns the platform identifier, e.g. "perplexity"
	Name() string

	// Ask poses a consumer-style query and returns the raw answer
	Ask(ctx context.Context, query string) (*Response, error)

	// IsEnabled returns whether this platform is configured
	IsEnabled() bool
}
