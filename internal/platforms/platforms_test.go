package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaile/openanalytics/internal/llm"
	"github.com/scaile/openanalytics/internal/models"
)

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func (s *stubLLM) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func (s *stubLLM) Close() error { return nil }

func TestOpenRouterClient_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		expected bool
	}{
		{
			name:     "API key provided",
			apiKey:   "test-key",
			expected: true,
		},
		{
			name:     "No API key",
			apiKey:   "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewOpenRouterClient(tt.apiKey, time.Second)
			assert.Equal(t, tt.expected, client.Enabled())
		})
	}
}

func TestOpenRouterClient_ChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://scaile.tech", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "OpenAnalytics", r.Header.Get("X-Title"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "openai/gpt-4.1", req.Model)
		assert.Equal(t, 1024, req.MaxTokens)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "best web analytics platform?", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"Acme Analytics leads the field."}}],"citations":["https://example.com/roundup"]}`)
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", 5*time.Second)
	client.setBaseURL(server.URL)

	resp, err := client.ChatCompletion(context.Background(), "openai/gpt-4.1", "best web analytics platform?")
	require.NoError(t, err)
	assert.Equal(t, "Acme Analytics leads the field.", resp.Text)
	assert.Equal(t, "openai/gpt-4.1", resp.Model)
	assert.Equal(t, []string{"https://example.com/roundup"}, resp.SourceURLs)
}

func TestOpenRouterClient_ChatCompletionDisabled(t *testing.T) {
	client := NewOpenRouterClient("", time.Second)

	_, err := client.ChatCompletion(context.Background(), "openai/gpt-4.1", "hello")
	assert.ErrorContains(t, err, "not configured")
}

func TestOpenRouterClient_ChatCompletionHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", 5*time.Second)
	client.setBaseURL(server.URL)

	_, err := client.ChatCompletion(context.Background(), "openai/gpt-4.1", "hello")
	assert.ErrorContains(t, err, "status 502")
}

func TestOpenRouterClient_ChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error":{"message":"model is overloaded"}}`)
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", 5*time.Second)
	client.setBaseURL(server.URL)

	_, err := client.ChatCompletion(context.Background(), "openai/gpt-4.1", "hello")
	assert.ErrorContains(t, err, "model is overloaded")
}

func TestOpenRouterClient_ChatCompletionNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client := NewOpenRouterClient("test-key", 5*time.Second)
	client.setBaseURL(server.URL)

	_, err := client.ChatCompletion(context.Background(), "openai/gpt-4.1", "hello")
	assert.ErrorContains(t, err, "no choices")
}

func TestOpenRouterPlatforms_AskSendsModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"content":"asked %s"}}]}`, req.Model)
	}))
	defer server.Close()

	router := NewOpenRouterClient("test-key", 5*time.Second)
	router.setBaseURL(server.URL)

	tests := []struct {
		name     string
		platform Platform
		model    string
	}{
		{
			name:     "perplexity",
			platform: NewPerplexityPlatform(router),
			model:    "perplexity/sonar-pro",
		},
		{
			name:     "claude",
			platform: NewClaudePlatform(router),
			model:    "anthropic/claude-3.5-sonnet",
		},
		{
			name:     "chatgpt",
			platform: NewChatGPTPlatform(router),
			model:    "openai/gpt-4.1",
		},
		{
			name:     "mistral",
			platform: NewMistralPlatform(router),
			model:    "mistralai/mistral-large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.platform.Name())
			assert.True(t, tt.platform.IsEnabled())

			resp, err := tt.platform.Ask(context.Background(), "best analytics tool?")
			require.NoError(t, err)
			assert.Equal(t, "asked "+tt.model, resp.Text)
			assert.Equal(t, tt.model, resp.Model)
		})
	}
}

func TestGeminiPlatform_Name(t *testing.T) {
	platform := NewGeminiPlatform(&stubLLM{})
	assert.Equal(t, "gemini", platform.Name())
}

func TestGeminiPlatform_IsEnabled(t *testing.T) {
	assert.True(t, NewGeminiPlatform(&stubLLM{}).IsEnabled())
	assert.False(t, NewGeminiPlatform(nil).IsEnabled())
}

func TestGeminiPlatform_Ask(t *testing.T) {
	platform := NewGeminiPlatform(&stubLLM{text: "Gemini answer"})

	resp, err := platform.Ask(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Gemini answer", resp.Text)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
}

func TestGeminiPlatform_AskError(t *testing.T) {
	platform := NewGeminiPlatform(&stubLLM{err: errors.New("quota exceeded")})

	_, err := platform.Ask(context.Background(), "anything")
	assert.Error(t, err)
}

func TestQueriesForMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		expected int
	}{
		{
			name:     "fast",
			mode:     models.ModeFast,
			expected: 10,
		},
		{
			name:     "balanced",
			mode:     models.ModeBalanced,
			expected: 25,
		},
		{
			name:     "full",
			mode:     models.ModeFull,
			expected: 50,
		},
		{
			name:     "unknown mode falls back to balanced",
			mode:     "turbo",
			expected: 25,
		},
		{
			name:     "empty mode falls back to balanced",
			mode:     "",
			expected: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QueriesForMode(tt.mode))
		})
	}
}

func TestRegistry_All(t *testing.T) {
	registry := NewRegistry("key", &stubLLM{}, time.Second)
	assert.Len(t, registry.All(), 5)
}

func TestRegistry_ForMode(t *testing.T) {
	tests := []struct {
		name          string
		openRouterKey string
		gemini        llm.Client
		mode          string
		expected      []string
	}{
		{
			name:          "fast mode",
			openRouterKey: "key",
			gemini:        &stubLLM{},
			mode:          models.ModeFast,
			expected:      []string{"gemini", "chatgpt"},
		},
		{
			name:          "balanced mode",
			openRouterKey: "key",
			gemini:        &stubLLM{},
			mode:          models.ModeBalanced,
			expected:      []string{"gemini", "chatgpt", "perplexity", "claude"},
		},
		{
			name:          "full mode",
			openRouterKey: "key",
			gemini:        &stubLLM{},
			mode:          models.ModeFull,
			expected:      []string{"gemini", "chatgpt", "perplexity", "claude", "mistral"},
		},
		{
			name:          "unknown mode falls back to balanced",
			openRouterKey: "key",
			gemini:        &stubLLM{},
			mode:          "turbo",
			expected:      []string{"gemini", "chatgpt", "perplexity", "claude"},
		},
		{
			name:          "gemini not configured",
			openRouterKey: "key",
			gemini:        nil,
			mode:          models.ModeBalanced,
			expected:      []string{"chatgpt", "perplexity", "claude"},
		},
		{
			name:          "openrouter not configured",
			openRouterKey: "",
			gemini:        &stubLLM{},
			mode:          models.ModeFull,
			expected:      []string{"gemini"},
		},
		{
			name:          "nothing configured",
			openRouterKey: "",
			gemini:        nil,
			mode:          models.ModeFull,
			expected:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry(tt.openRouterKey, tt.gemini, time.Second)

			var names []string
			for _, p := range registry.ForMode(tt.mode) {
				names = append(names, p.Name())
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}
