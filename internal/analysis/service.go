// Package analysis runs the master analysis: website health and AI brand
// visibility measured in parallel, folded into one combined result.
package analysis

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/scoring"
)

// HealthRunner grades a website.
type HealthRunner interface {
	Run(ctx context.Context, req *models.HealthCheckRequest) (*models.HealthResult, error)
}

// MentionsRunner measures brand visibility in AI answers.
type MentionsRunner interface {
	Run(ctx context.Context, req *models.MentionsCheckRequest) (*models.MentionsResult, error)
}

// Service runs master analyses.
type Service struct {
	health   HealthRunner
	mentions MentionsRunner
}

// NewService creates an analysis service.
func NewService(health HealthRunner, mentions MentionsRunner) *Service {
	return &Service{health: health, mentions: mentions}
}

// Run executes the health check and the mentions measurement in parallel
// and combines them. Either half failing fails the analysis; an unreachable
// website is not a failure, the health service grades it zero.
func (s *Service) Run(ctx context.Context, req *models.AnalyzeRequest) (*models.MasterResult, error) {
	start := time.Now()

	logrus.Infof("Starting master analysis for %s (%s)", req.CompanyName, req.URL)

	var (
		healthResult   *models.HealthResult
		mentionsResult *models.MentionsResult
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		healthResult, err = s.health.Run(groupCtx, req.HealthRequest())
		return err
	})
	g.Go(func() error {
		var err error
		mentionsResult, err = s.mentions.Run(groupCtx, req.MentionsRequest())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := scoring.CombinedScore(healthResult.Score, mentionsResult.VisibilityScore)
	band, color := scoring.VisibilityBand(combined)

	result := &models.MasterResult{
		ID:                       uuid.NewString(),
		URL:                      req.URL,
		Company:                  req.CompanyName,
		Health:                   healthResult,
		Mentions:                 mentionsResult,
		CombinedScore:            combined,
		CombinedGrade:            scoring.CombinedGrade(combined),
		CombinedBand:             band,
		BandColor:                color,
		StrategicRecommendations: strategicRecommendations(healthResult, mentionsResult),
		PriorityActions:          priorityActions(healthResult),
		ExecutionTime:            math.Round(time.Since(start).Seconds()*100) / 100,
		GeneratedAt:              time.Now().UTC(),
	}

	logrus.Infof("Master analysis for %s completed: combined %.1f (%s), health %.1f, visibility %.1f",
		req.CompanyName, combined, result.CombinedGrade, healthResult.Score, mentionsResult.VisibilityScore)

	return result, nil
}

// strategicRecommendations positions the next investment based on which
// half is weaker. The output is deterministic for a given pair of scores.
func strategicRecommendations(health *models.HealthResult, mentions *models.MentionsResult) []string {
	var recs []string

	healthScore := health.Score
	visibility := mentions.VisibilityScore

	if healthScore < 65 {
		recs = append(recs, "Fix website health first: technical and schema gaps suppress every AI visibility gain")
	}
	if visibility < 45 {
		recs = append(recs, "Invest in AI answer placement: the brand is largely absent when buyers ask AI assistants")
	}
	if healthScore >= 80 && visibility < healthScore {
		recs = append(recs, "Site fundamentals are strong; shift effort toward content that AI platforms cite")
	}
	if visibility >= 80 && healthScore < visibility {
		recs = append(recs, "AI presence is ahead of site health; closing technical gaps protects the lead")
	}
	if healthScore >= 80 && visibility >= 80 {
		recs = append(recs, "Defend the position: monitor monthly and keep schema and content fresh")
	}
	if len(recs) == 0 {
		recs = append(recs, "Raise both pillars together: fix the highest-impact failed checks and grow AI citations")
	}

	if mentions.TLDR != nil {
		recs = append(recs, mentions.TLDR.ActionableRecommendations...)
	}

	return dedupe(recs)
}

// priorityActions turns the worst failed checks into an ordered to-do list:
// errors before warnings before notices, higher impact first, capped at five.
func priorityActions(health *models.HealthResult) []string {
	failed := health.FailedChecks()

	sort.SliceStable(failed, func(i, j int) bool {
		if a, b := severityRank(failed[i].Severity), severityRank(failed[j].Severity); a != b {
			return a < b
		}
		return failed[i].ScoreImpact > failed[j].ScoreImpact
	})

	var actions []string
	for _, check := range failed {
		if check.Recommendation == "" {
			continue
		}
		actions = append(actions, check.Recommendation)
		if len(actions) == 5 {
			break
		}
	}
	return dedupe(actions)
}

func severityRank(severity string) int {
	switch severity {
	case models.SeverityError:
		return 0
	case models.SeverityWarning:
		return 1
	default:
		return 2
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
