// Package health orchestrates website health checks: fetch the site, run
// the check battery, apply tiered scoring.
package health

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scaile/openanalytics/internal/checks"
	"github.com/scaile/openanalytics/internal/fetcher"
	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/scoring"
)

// Service runs website health checks.
type Service struct {
	opts fetcher.Options
	base *fetcher.Fetcher
}

// NewService creates a health service. opts are the fetch defaults, which
// individual requests may override.
func NewService(opts fetcher.Options) *Service {
	return &Service{opts: opts, base: fetcher.New(opts)}
}

// Run fetches the site and grades it. An unreachable site is not a Go
// error: it yields a zero-score result explaining the fetch failure.
func (s *Service) Run(ctx context.Context, req *models.HealthCheckRequest) (*models.HealthResult, error) {
	start := time.Now()

	logrus.Infof("Starting health check for %s", req.URL)

	snap, err := s.fetcherFor(req).Fetch(ctx, req.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.Warnf("Fetch failed for %s: %v", req.URL, err)
		return fetchFailureResult(req.URL, err, time.Since(start)), nil
	}

	page, err := checks.NewPage(checks.Input{
		URL:          snap.URL,
		HTML:         snap.HTML,
		HTTPStatus:   snap.StatusCode,
		LatencyMS:    snap.ResponseTimeMS,
		RobotsTxt:    snap.RobotsTxt,
		RobotsFound:  snap.RobotsFound,
		SitemapFound: snap.SitemapFound,
	})
	if err != nil {
		return nil, err
	}

	results := checks.Run(page)
	score, tiers := scoring.TieredScore(results)
	band, color := scoring.VisibilityBand(score)

	result := &models.HealthResult{
		URL:         snap.URL,
		Score:       score,
		Grade:       scoring.Grade(score),
		Band:        band,
		BandColor:   color,
		Categories:  categoryRollups(results),
		Checks:      results,
		TierDetails: tiers,
		Fetch: models.FetchInfo{
			HTTPStatus:     snap.StatusCode,
			LatencyMS:      snap.ResponseTimeMS,
			RenderMode:     renderMode(snap.JSRendered),
			RobotsTxtFound: snap.RobotsFound,
			SitemapFound:   snap.SitemapFound,
		},
		ExecutionTime: round2(time.Since(start).Seconds()),
		AnalyzedAt:    time.Now().UTC(),
	}

	passed := 0
	for _, c := range results {
		if c.Passed {
			passed++
		}
	}
	logrus.Infof("Health check for %s completed: score %.1f, grade %s, %d/%d checks passed",
		req.URL, score, result.Grade, passed, len(results))

	return result, nil
}

// fetcherFor returns the shared fetcher unless the request overrides the
// fetch defaults.
func (s *Service) fetcherFor(req *models.HealthCheckRequest) *fetcher.Fetcher {
	if req.TimeoutSeconds == 0 && req.EnableJSRendering == nil {
		return s.base
	}
	opts := s.opts
	if req.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	if req.EnableJSRendering != nil {
		opts.EnableJS = *req.EnableJSRendering
	}
	return fetcher.New(opts)
}

// fetchFailureResult grades an unfetchable site: zero score, grade F, a
// single pseudo-check explaining why, and tier details pinned to tier0.
func fetchFailureResult(url string, fetchErr error, elapsed time.Duration) *models.HealthResult {
	reason := fetchErr.Error()
	band, color := scoring.VisibilityBand(0)

	return &models.HealthResult{
		URL:       url,
		Score:     0,
		Grade:     scoring.Grade(0),
		Band:      band,
		BandColor: color,
		Checks: []models.CheckResult{{
			Check:          "fetch",
			Category:       "critical",
			Passed:         false,
			Severity:       models.SeverityError,
			Message:        reason,
			Recommendation: "Ensure the URL is accessible and not blocking requests",
		}},
		TierDetails: models.TierDetails{
			Tier0:          models.TierCap{Passed: false, Cap: 0, Reason: reason},
			Tier1:          models.TierCap{Passed: false, Cap: 0, Reason: "Could not fetch"},
			Tier2:          models.TierCap{Passed: false, Cap: 0, Reason: "Could not fetch"},
			BaseScore:      0,
			LimitingTier:   "tier0",
			LimitingReason: reason,
		},
		ExecutionTime: round2(elapsed.Seconds()),
		AnalyzedAt:    time.Now().UTC(),
	}
}

func categoryRollups(results []models.CheckResult) map[string]models.CategoryRollup {
	byCategory := make(map[string][]models.CheckResult)
	for _, r := range results {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	rollups := make(map[string]models.CategoryRollup, len(byCategory))
	for category, list := range byCategory {
		passed := 0
		for _, r := range list {
			if r.Passed {
				passed++
			}
		}
		rollups[category] = models.CategoryRollup{
			Passed: passed,
			Total:  len(list),
			Score:  scoring.BaseScore(list),
		}
	}
	return rollups
}

func renderMode(jsRendered bool) string {
	if jsRendered {
		return "browser"
	}
	return "static"
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
