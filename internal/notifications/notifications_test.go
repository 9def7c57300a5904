package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/models"
)

func sampleResult() *models.MasterResult {
	return &models.MasterResult{
		ID:      "abc123",
		URL:     "https://acme.example",
		Company: "Acme Analytics",
		Health: &models.HealthResult{
			Score: 90.0,
			Grade: "A-",
		},
		Mentions: &models.MentionsResult{
			VisibilityScore: 55.0,
			Band:            "Moderate",
			PlatformStats: map[string]*models.PlatformStats{
				"gemini":  {Queries: 10, Responses: 10, Mentions: 6, QualityScore: 7.2},
				"chatgpt": {Queries: 10, Responses: 9, Mentions: 5, Errors: 1, QualityScore: 6.8},
			},
		},
		CombinedScore:            76.0,
		CombinedGrade:            "B",
		StrategicRecommendations: []string{"Site fundamentals are strong; shift effort toward content that AI platforms cite"},
		GeneratedAt:              time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestSendReport_Webhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Acme Analytics", payload["company"])
		assert.EqualValues(t, 76.0, payload["combined_score"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := NewService(&config.Config{ReportWebhookURL: server.URL})
	assert.NoError(t, service.SendReport(sampleResult()))
}

func TestSendReport_WebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewService(&config.Config{ReportWebhookURL: server.URL})
	err := service.SendReport(sampleResult())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSendReport_NoChannelsConfigured(t *testing.T) {
	service := NewService(&config.Config{})
	assert.NoError(t, service.SendReport(sampleResult()))
}

func TestSendAlert_Webhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "score_drop", payload["type"])
		assert.EqualValues(t, 82.0, payload["previous_score"])
		assert.EqualValues(t, 61.0, payload["current_score"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := NewService(&config.Config{ReportWebhookURL: server.URL})
	err := service.SendAlert(&models.Alert{
		Type:          "score_drop",
		Target:        "https://acme.example",
		Company:       "Acme Analytics",
		Message:       "Acme Analytics combined score dropped 21.0 points since the last run",
		PreviousScore: 82.0,
		CurrentScore:  61.0,
		CreatedAt:     time.Now(),
	})

	assert.NoError(t, err)
}

func TestSendAlert_NoChannelsIsLoggedOnly(t *testing.T) {
	service := NewService(&config.Config{})
	assert.NoError(t, service.SendAlert(&models.Alert{Message: "drop"}))
}

func TestBuildEmailText(t *testing.T) {
	text := buildEmailText(sampleResult())

	assert.Contains(t, text, "AEO Visibility Report - Acme Analytics")
	assert.Contains(t, text, "Combined: 76.0 (B)")
	assert.Contains(t, text, "Website Health: 90.0 (A-)")
	assert.Contains(t, text, "AI Visibility: 55.0 (Moderate)")
	assert.Contains(t, text, "chatgpt: 5 mentions in 9 responses (quality 6.8)")
	assert.Contains(t, text, "gemini: 6 mentions in 10 responses (quality 7.2)")
	assert.Contains(t, text, "1. Site fundamentals are strong")
	assert.Contains(t, text, "generated automatically by OpenAnalytics")
}
