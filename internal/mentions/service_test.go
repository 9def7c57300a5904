package mentions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/platforms"
	"github.com/scaile/openanalytics/internal/queries"
)

// stubPlatform answers every query the same way.
type stubPlatform struct {
	name    string
	enabled bool
	reply   string
	askErr  error
	delay   time.Duration
}

func (s *stubPlatform) Name() string    { return s.name }
func (s *stubPlatform) IsEnabled() bool { return s.enabled }

func (s *stubPlatform) Ask(ctx context.Context, query string) (*platforms.Response, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.askErr != nil {
		return nil, s.askErr
	}
	return &platforms.Response{Text: s.reply, Model: s.name}, nil
}

// seqPlatform answers with a fixed reply sequence, one per call.
type seqPlatform struct {
	name    string
	replies []string

	mu    sync.Mutex
	calls int
}

func (s *seqPlatform) Name() string    { return s.name }
func (s *seqPlatform) IsEnabled() bool { return true }

func (s *seqPlatform) Ask(ctx context.Context, query string) (*platforms.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply := s.replies[s.calls%len(s.replies)]
	s.calls++
	return &platforms.Response{Text: reply, Model: s.name}, nil
}

func testMentionsRequest(n int, mode string) *models.MentionsCheckRequest {
	return &models.MentionsCheckRequest{
		CompanyName: "Acme Analytics",
		CompanyAnalysis: models.CompanyAnalysis{
			CompanyInfo: models.CompanyInfo{
				Name:     "Acme Analytics",
				Industry: "web analytics",
				Products: []string{"Acme Dashboard"},
			},
			Competitors: []models.Competitor{{Name: "RivalMetrics"}},
		},
		NumQueries: n,
		Mode:       mode,
	}
}

func newTestService(opts Options, list ...platforms.Platform) *Service {
	return NewService(platforms.NewRegistryWith(list...), queries.NewGenerator(nil), opts)
}

func TestService_Run(t *testing.T) {
	service := newTestService(Options{},
		&stubPlatform{name: "gemini", enabled: true, reply: "I recommend Acme Analytics for every team."},
		&stubPlatform{name: "chatgpt", enabled: true, reply: "There are many analytics tools on the market."},
	)

	result, err := service.Run(context.Background(), testMentionsRequest(4, models.ModeFast))
	require.NoError(t, err)

	assert.Equal(t, "Acme Analytics", result.Company)
	assert.Equal(t, models.ModeFast, result.Mode)
	assert.Equal(t, 4, result.TotalQueries)
	assert.Len(t, result.Results, 8)
	assert.False(t, result.Partial)

	// Gemini mentions the company on every query, so every query counts.
	assert.Equal(t, 100.0, result.VisibilityScore)
	assert.Equal(t, 100.0, result.PresenceRate)
	assert.Equal(t, 4, result.Mentions)
	assert.Equal(t, 9.5, result.QualityScore)
	assert.Equal(t, "Excellent", result.Band)
	assert.Equal(t, "#22c55e", result.BandColor)

	gemini := result.PlatformStats["gemini"]
	require.NotNil(t, gemini)
	assert.Equal(t, 4, gemini.Queries)
	assert.Equal(t, 4, gemini.Responses)
	assert.Equal(t, 4, gemini.Mentions)
	assert.Equal(t, 0, gemini.Errors)
	assert.Equal(t, 9.5, gemini.QualityScore)

	chatgpt := result.PlatformStats["chatgpt"]
	require.NotNil(t, chatgpt)
	assert.Equal(t, 4, chatgpt.Responses)
	assert.Equal(t, 0, chatgpt.Mentions)
	assert.Equal(t, 0.0, chatgpt.QualityScore)

	// Results come back in query-major order regardless of completion order.
	assert.Equal(t, "gemini", result.Results[0].Platform)
	assert.Equal(t, "chatgpt", result.Results[1].Platform)
	assert.Equal(t, result.Results[0].Query, result.Results[1].Query)

	require.NotNil(t, result.TLDR)
	assert.Contains(t, result.TLDR.VisibilityAssessment, "excellent")
	assert.False(t, result.AnalyzedAt.IsZero())
}

func TestService_RunCountsPlatformErrors(t *testing.T) {
	service := newTestService(Options{},
		&stubPlatform{name: "gemini", enabled: true, askErr: errors.New("rate limited")},
		&stubPlatform{name: "chatgpt", enabled: true, reply: "Acme Analytics is the best choice for most teams."},
	)

	result, err := service.Run(context.Background(), testMentionsRequest(3, models.ModeFast))
	require.NoError(t, err)

	gemini := result.PlatformStats["gemini"]
	require.NotNil(t, gemini)
	assert.Equal(t, 3, gemini.Errors)
	assert.Equal(t, 0, gemini.Responses)
	assert.Equal(t, 0, gemini.Mentions)

	// 3 of 6 attempts answered.
	assert.Equal(t, 50.0, result.PresenceRate)
	assert.Equal(t, 100.0, result.VisibilityScore)
	assert.Equal(t, 3, result.Mentions)
	assert.Equal(t, 7.5, result.QualityScore)
	assert.Len(t, result.Results, 3)
	assert.False(t, result.Partial)

	require.NotNil(t, result.TLDR)
	assert.Contains(t, result.TLDR.KeyInsights, "3 platform calls failed during the run")
}

func TestService_RunNoPlatforms(t *testing.T) {
	service := newTestService(Options{},
		&stubPlatform{name: "gemini", enabled: false},
	)

	_, err := service.Run(context.Background(), testMentionsRequest(5, models.ModeFast))
	assert.ErrorContains(t, err, "no AI platforms are configured")
}

func TestService_RunModeDefaults(t *testing.T) {
	service := newTestService(Options{},
		&stubPlatform{name: "gemini", enabled: true, reply: "no brands here"},
		&stubPlatform{name: "chatgpt", enabled: true, reply: "no brands here"},
	)

	req := testMentionsRequest(0, "")
	result, err := service.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.ModeBalanced, result.Mode)
	assert.Equal(t, 25, result.TotalQueries)
	assert.Len(t, result.PlatformStats, 2)
}

func TestService_RunNumQueriesOverridesMode(t *testing.T) {
	service := newTestService(Options{},
		&stubPlatform{name: "gemini", enabled: true, reply: "no brands here"},
	)

	result, err := service.Run(context.Background(), testMentionsRequest(7, models.ModeFast))
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalQueries)
	assert.Len(t, result.Results, 7)
}

func TestService_RunAggregatesQuality(t *testing.T) {
	platform := &seqPlatform{
		name: "gemini",
		replies: []string{
			"I recommend Acme Analytics.",
			"Best analytics tools:\n1. RivalMetrics\n2. Acme Analytics",
			"Many teams track site metrics daily.",
		},
	}
	service := newTestService(Options{MaxConcurrent: 1}, platform)

	result, err := service.Run(context.Background(), testMentionsRequest(3, models.ModeFast))
	require.NoError(t, err)

	// Primary recommendation (9.5) plus listed option in slot 2 (6.5).
	assert.Equal(t, 2, result.Mentions)
	assert.Equal(t, 66.7, result.VisibilityScore)
	assert.Equal(t, 8.0, result.QualityScore)
	assert.Equal(t, "Strong", result.Band)

	require.Len(t, result.Results, 3)
	assert.Equal(t, models.MentionPrimaryRecommendation, result.Results[0].MentionType)
	assert.Equal(t, models.MentionListedOption, result.Results[1].MentionType)
	assert.Equal(t, 2, result.Results[1].Position)
	assert.Equal(t, map[string]int{"RivalMetrics": 1}, result.Results[1].CompetitorMentions)
	assert.False(t, result.Results[2].CompanyMentioned)

	unbranded := result.DimensionStats[models.DimensionUnbranded]
	require.NotNil(t, unbranded)
	assert.Equal(t, 2, unbranded.Queries)
	assert.Equal(t, 2, unbranded.Mentions)
	assert.Equal(t, 8.0, unbranded.QualityScore)

	competitive := result.DimensionStats[models.DimensionCompetitive]
	require.NotNil(t, competitive)
	assert.Equal(t, 1, competitive.Queries)
	assert.Equal(t, 0, competitive.Mentions)

	require.NotNil(t, result.TLDR)
	assert.Contains(t, result.TLDR.BrandConfusionRisk, "Medium")
}

func TestService_RunPartialOnDeadline(t *testing.T) {
	service := newTestService(
		Options{OverallTimeout: 50 * time.Millisecond, MaxConcurrent: 1},
		&stubPlatform{name: "gemini", enabled: true, delay: 5 * time.Second, reply: "Acme Analytics"},
	)

	result, err := service.Run(context.Background(), testMentionsRequest(2, models.ModeFast))
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Empty(t, result.Results)
	assert.Equal(t, 0.0, result.PresenceRate)
	assert.Equal(t, 0.0, result.VisibilityScore)
	assert.Equal(t, "Critical", result.Band)
	assert.Equal(t, 2, result.PlatformStats["gemini"].Errors)
}

func TestService_RunFailPolicyOnDeadline(t *testing.T) {
	service := newTestService(
		Options{OverallTimeout: 50 * time.Millisecond, MaxConcurrent: 1, TimeoutPolicy: PolicyFail},
		&stubPlatform{name: "gemini", enabled: true, delay: 5 * time.Second, reply: "Acme Analytics"},
	)

	_, err := service.Run(context.Background(), testMentionsRequest(2, models.ModeFast))
	assert.ErrorContains(t, err, "overall timeout")
}

func TestService_RunQueryTimeoutIsNotPartial(t *testing.T) {
	service := newTestService(
		Options{QueryTimeout: 50 * time.Millisecond},
		&stubPlatform{name: "gemini", enabled: true, delay: 5 * time.Second, reply: "Acme Analytics"},
	)

	result, err := service.Run(context.Background(), testMentionsRequest(1, models.ModeFast))
	require.NoError(t, err)

	// Individual calls timed out, but the run itself finished.
	assert.False(t, result.Partial)
	assert.Equal(t, 1, result.PlatformStats["gemini"].Errors)
	assert.Empty(t, result.Results)
}

func TestService_RunCallerCanceled(t *testing.T) {
	service := newTestService(Options{},
		&stubPlatform{name: "gemini", enabled: true, reply: "Acme Analytics"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Run(ctx, testMentionsRequest(2, models.ModeFast))
	assert.ErrorIs(t, err, context.Canceled)
}
