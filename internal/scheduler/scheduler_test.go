package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/storage"
)

type stubAnalyzer struct {
	result *models.MasterResult
	err    error
	gotReq *models.AnalyzeRequest
}

func (s *stubAnalyzer) Run(ctx context.Context, req *models.AnalyzeRequest) (*models.MasterResult, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubNotifier struct {
	reports []*models.MasterResult
	alerts  []*models.Alert
}

func (s *stubNotifier) SendReport(result *models.MasterResult) error {
	s.reports = append(s.reports, result)
	return nil
}

func (s *stubNotifier) SendAlert(alert *models.Alert) error {
	s.alerts = append(s.alerts, alert)
	return nil
}

func watchConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		WatchTargets:  "https://acme.example=Acme Analytics",
		WatchSchedule: "weekly",
		TimeZone:      "UTC",
	}
}

func masterResult(score float64, id string, at time.Time) *models.MasterResult {
	return &models.MasterResult{
		ID:            id,
		URL:           "https://acme.example",
		Company:       "Acme Analytics",
		CombinedScore: score,
		CombinedGrade: "B",
		GeneratedAt:   at,
	}
}

func TestRunAll_ArchivesAndNotifies(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	analyzer := &stubAnalyzer{result: masterResult(80.0, "run-1", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))}
	notifier := &stubNotifier{}
	service := NewService(watchConfig(t), analyzer, archive, notifier)

	service.RunAll(context.Background())

	require.NotNil(t, analyzer.gotReq)
	assert.Equal(t, "https://acme.example", analyzer.gotReq.URL)
	assert.Equal(t, "Acme Analytics", analyzer.gotReq.CompanyName)
	assert.Equal(t, "Acme Analytics", analyzer.gotReq.CompanyAnalysis.CompanyInfo.Name)
	assert.Equal(t, models.ModeBalanced, analyzer.gotReq.Mode)

	names, err := archive.List("acme-analytics/")
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Contains(t, names[0], "run-1.json")

	require.Len(t, notifier.reports, 1)
	assert.Equal(t, 80.0, notifier.reports[0].CombinedScore)
	assert.Empty(t, notifier.alerts)
}

func TestRunAll_AlertsOnScoreDrop(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	notifier := &stubNotifier{}
	previous := masterResult(80.0, "run-1", time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC))
	current := masterResult(61.0, "run-2", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	service := NewService(watchConfig(t), &stubAnalyzer{result: current}, archive, notifier)

	require.NoError(t, service.archiveResult(previous))

	service.RunAll(context.Background())

	require.Len(t, notifier.alerts, 1)
	alert := notifier.alerts[0]
	assert.Equal(t, "score_drop", alert.Type)
	assert.Equal(t, "https://acme.example", alert.Target)
	assert.Equal(t, 80.0, alert.PreviousScore)
	assert.Equal(t, 61.0, alert.CurrentScore)
	assert.Contains(t, alert.Message, "dropped 19.0 points")

	// Both runs are archived afterwards.
	names, err := archive.List("acme-analytics/")
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestRunAll_NoAlertOnSmallDrop(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	notifier := &stubNotifier{}
	previous := masterResult(80.0, "run-1", time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC))
	current := masterResult(70.0, "run-2", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	service := NewService(watchConfig(t), &stubAnalyzer{result: current}, archive, notifier)

	require.NoError(t, service.archiveResult(previous))
	service.RunAll(context.Background())

	assert.Empty(t, notifier.alerts)
	assert.Len(t, notifier.reports, 1)
}

func TestRunAll_FirstRunNeverAlerts(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	notifier := &stubNotifier{}
	current := masterResult(12.0, "run-1", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	service := NewService(watchConfig(t), &stubAnalyzer{result: current}, archive, notifier)

	service.RunAll(context.Background())

	assert.Empty(t, notifier.alerts)
}

func TestRunAll_SkipsNonJSONBlobsWhenComparing(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	notifier := &stubNotifier{}
	previous := masterResult(80.0, "run-1", time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC))
	current := masterResult(61.0, "run-2", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	service := NewService(watchConfig(t), &stubAnalyzer{result: current}, archive, notifier)

	require.NoError(t, service.archiveResult(previous))
	// A rendered report archived later than the JSON run must not be parsed.
	require.NoError(t, archive.Store(
		storage.BlobName("Acme Analytics", "html", time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC), "run-1"),
		[]byte("<html></html>"),
	))

	service.RunAll(context.Background())

	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, 80.0, notifier.alerts[0].PreviousScore)
}

func TestRunAll_AnalyzerFailureIsLoggedNotFatal(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	notifier := &stubNotifier{}
	service := NewService(watchConfig(t), &stubAnalyzer{err: assert.AnError}, archive, notifier)

	service.RunAll(context.Background())

	names, err := archive.List("")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, notifier.reports)
	assert.Empty(t, notifier.alerts)
}

func TestStart_WithoutTargetsStaysIdle(t *testing.T) {
	cfg := &config.Config{WatchSchedule: "weekly", TimeZone: "UTC"}
	service := NewService(cfg, &stubAnalyzer{}, nil, &stubNotifier{})

	assert.NoError(t, service.Start())
	service.Stop()
}

func TestStart_SchedulesTargets(t *testing.T) {
	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	service := NewService(watchConfig(t), &stubAnalyzer{result: masterResult(80.0, "run-1", time.Now())}, archive, &stubNotifier{})

	require.NoError(t, service.Start())
	service.Stop()
}
