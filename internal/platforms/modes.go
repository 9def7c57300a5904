package platforms

import (
	"time"

	"github.com/scaile/openanalytics/internal/llm"
	"github.com/scaile/openanalytics/internal/models"
)

// modePlatforms maps a run mode to the platform names it queries. Fast
// covers the two highest-traffic assistants, balanced adds the
// retrieval-heavy ones, full sweeps everything.
var modePlatforms = map[string][]string{
	models.ModeFast:     {"gemini", "chatgpt"},
	models.ModeBalanced: {"gemini", "chatgpt", "perplexity", "claude"},
	models.ModeFull:     {"gemini", "chatgpt", "perplexity", "claude", "mistral"},
}

// modeQueries maps a run mode to its default query count.
var modeQueries = map[string]int{
	models.ModeFast:     10,
	models.ModeBalanced: 25,
	models.ModeFull:     50,
}

// QueriesForMode returns the default number of queries for a mode. An
// unknown or empty mode falls back to balanced.
func QueriesForMode(mode string) int {
	if n, ok := modeQueries[mode]; ok {
		return n
	}
	return modeQueries[models.ModeBalanced]
}

// Registry holds every supported platform client in a fixed order.
type Registry struct {
	all []Platform
}

// NewRegistry wires up all supported AI platforms. Platforms whose
// credentials are missing stay registered but report IsEnabled false,
// so ForMode skips them.
func NewRegistry(openRouterKey string, gemini llm.Client, timeout time.Duration) *Registry {
	router := NewOpenRouterClient(openRouterKey, timeout)
	return &Registry{
		all: []Platform{
			NewGeminiPlatform(gemini),
			NewChatGPTPlatform(router),
			NewPerplexityPlatform(router),
			NewClaudePlatform(router),
			NewMistralPlatform(router),
		},
	}
}

// NewRegistryWith builds a registry from explicit platforms, kept in the
// given order. Useful for custom wiring.
func NewRegistryWith(list ...Platform) *Registry {
	return &Registry{all: list}
}

// All returns every registered platform regardless of enablement.
func (r *Registry) All() []Platform {
	return r.all
}

// ForMode returns the enabled platforms for the given run mode, in
// registration order. An unknown or empty mode falls back to balanced.
func (r *Registry) ForMode(mode string) []Platform {
	names, ok := modePlatforms[mode]
	if !ok {
		names = modePlatforms[models.ModeBalanced]
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []Platform
	for _, p := range r.all {
		if wanted[p.Name()] && p.IsEnabled() {
			selected = append(selected, p)
		}
	}
	return selected
}
