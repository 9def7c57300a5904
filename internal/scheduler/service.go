// Package scheduler re-analyzes configured watch targets on a cron
// schedule, archives each run, and raises alerts on sharp score drops.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/notifications"
	"github.com/scaile/openanalytics/internal/storage"
)

// Analyzer runs the combined health and mentions analysis.
type Analyzer interface {
	Run(ctx context.Context, req *models.AnalyzeRequest) (*models.MasterResult, error)
}

// scoreDropThreshold is the combined-score drop, in points, that raises an
// alert against the previous archived run of the same target.
const scoreDropThreshold = 15.0

// Service handles scheduling of watch target analyses
type Service struct {
	config   *config.Config
	analyzer Analyzer
	archive  storage.StorageInterface
	notifier notifications.NotificationInterface
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, analyzer Analyzer, archive storage.StorageInterface, notifier notifications.NotificationInterface) *Service {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logrus.Warnf("Unknown TIMEZONE %q, scheduling in UTC", cfg.TimeZone)
		loc = time.UTC
	}

	return &Service{
		config:   cfg,
		analyzer: analyzer,
		archive:  archive,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
	}
}

// Start begins the scheduled runs. Without watch targets the scheduler
// stays idle.
func (s *Service) Start() error {
	targets := s.config.Targets()
	if len(targets) == 0 {
		logrus.Info("No watch targets configured, scheduler idle")
		return nil
	}

	var cronExpression string
	switch s.config.WatchSchedule {
	case "daily":
		// Run daily at 9 AM
		cronExpression = "0 0 9 * * *"
	default:
		// Run weekly on Monday at 9 AM
		cronExpression = "0 0 9 * * MON"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Infof("Starting scheduled analysis of %d watch targets", len(targets))
		s.RunAll(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule for %d targets", s.config.WatchSchedule, len(targets))
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}

// RunAll analyzes every watch target once. Failures are logged per target
// so one broken site never blocks the rest of the run.
func (s *Service) RunAll(ctx context.Context) {
	for _, target := range s.config.Targets() {
		if err := s.runTarget(ctx, target); err != nil {
			logrus.Errorf("Scheduled analysis of %s failed: %v", target.URL, err)
		}
	}
}

func (s *Service) runTarget(ctx context.Context, target config.WatchTarget) error {
	req := &models.AnalyzeRequest{
		URL:         target.URL,
		CompanyName: target.Company,
		CompanyAnalysis: models.CompanyAnalysis{
			CompanyInfo: models.CompanyInfo{Name: target.Company, Website: target.URL},
		},
		Mode: models.ModeBalanced,
	}

	result, err := s.analyzer.Run(ctx, req)
	if err != nil {
		return err
	}

	// Compare before archiving so the previous run is still the latest blob.
	s.checkForScoreDrop(target, result)

	if err := s.archiveResult(result); err != nil {
		logrus.Errorf("Failed to archive analysis of %s: %v", target.URL, err)
	}

	if err := s.notifier.SendReport(result); err != nil {
		logrus.Errorf("Failed to deliver report for %s: %v", target.URL, err)
	}

	return nil
}

// archiveResult stores the run as JSON under the company prefix.
func (s *Service) archiveResult(result *models.MasterResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return s.archive.Store(storage.BlobName(result.Company, "json", result.GeneratedAt, result.ID), data)
}

// checkForScoreDrop alerts when the combined score fell at least 15 points
// below the most recent archived run of the same company.
func (s *Service) checkForScoreDrop(target config.WatchTarget, result *models.MasterResult) {
	previous, ok := s.previousScore(result.Company)
	if !ok {
		return
	}

	drop := previous - result.CombinedScore
	if drop < scoreDropThreshold {
		return
	}

	alert := &models.Alert{
		Type:          "score_drop",
		Target:        target.URL,
		Company:       result.Company,
		Message:       fmt.Sprintf("%s combined score dropped %.1f points since the last run", result.Company, drop),
		PreviousScore: previous,
		CurrentScore:  result.CombinedScore,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.notifier.SendAlert(alert); err != nil {
		logrus.Errorf("Failed to send score drop alert for %s: %v", target.URL, err)
	}
}

// previousScore loads the combined score of the latest archived JSON run
// under the company prefix. Rendered HTML and PDF blobs share the prefix
// and are skipped.
func (s *Service) previousScore(company string) (float64, bool) {
	names, err := s.archive.List(storage.Slug(company) + "/")
	if err != nil {
		logrus.Warnf("Failed to list previous runs for %s: %v", company, err)
		return 0, false
	}

	var latest string
	for _, name := range names {
		if strings.HasSuffix(name, ".json") {
			latest = name
		}
	}
	if latest == "" {
		return 0, false
	}

	data, err := s.archive.Retrieve(latest)
	if err != nil {
		logrus.Warnf("Failed to load previous run %s: %v", latest, err)
		return 0, false
	}

	var prev models.MasterResult
	if err := json.Unmarshal(data, &prev); err != nil {
		logrus.Warnf("Failed to decode previous run %s: %v", latest, err)
		return 0, false
	}

	return prev.CombinedScore, true
}
