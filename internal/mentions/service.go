package mentions

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/platforms"
	"github.com/scaile/openanalytics/internal/queries"
)

// Timeout policies for runs that hit the overall deadline.
const (
	PolicyIncludePartial = "include-partial"
	PolicyFail           = "fail"
)

// Options tunes a mentions run. Zero values fall back to the defaults.
type Options struct {
	QueryTimeout   time.Duration // per platform call, default 60s
	OverallTimeout time.Duration // whole fan-out, default 10m
	TimeoutPolicy  string        // include-partial (default) or fail
	MaxConcurrent  int           // concurrent platform calls, default 8
}

func (o Options) withDefaults() Options {
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = 60 * time.Second
	}
	if o.OverallTimeout <= 0 {
		o.OverallTimeout = 10 * time.Minute
	}
	if o.TimeoutPolicy == "" {
		o.TimeoutPolicy = PolicyIncludePartial
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 8
	}
	return o
}

// Service runs brand visibility measurements across AI platforms.
type Service struct {
	registry  *platforms.Registry
	generator *queries.Generator
	opts      Options
}

// NewService creates a mentions service.
func NewService(registry *platforms.Registry, generator *queries.Generator, opts Options) *Service {
	return &Service{registry: registry, generator: generator, opts: opts.withDefaults()}
}

// Run measures how visibly the company shows up in AI platform answers. It
// generates the query set, asks every enabled platform for the mode, and
// aggregates classified mentions into a visibility result.
func (s *Service) Run(ctx context.Context, req *models.MentionsCheckRequest) (*models.MentionsResult, error) {
	start := time.Now()

	mode := req.Mode
	if mode == "" {
		mode = models.ModeBalanced
	}

	selected := s.registry.ForMode(mode)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no AI platforms are configured")
	}

	numQueries := req.NumQueries
	if numQueries == 0 {
		numQueries = platforms.QueriesForMode(mode)
	}

	querySet := s.generator.Generate(ctx, req.CompanyAnalysis, req.Language, req.Country, numQueries)

	logrus.Infof("Starting mentions run for %s: %d queries across %d platforms (%s mode)",
		req.CompanyName, len(querySet), len(selected), mode)

	results, errCounts, partial, err := s.fanOut(ctx, req.CompanyName, req.CompanyAnalysis.CompetitorNames(), querySet, selected)
	if err != nil {
		return nil, err
	}

	result := aggregate(req.CompanyName, mode, querySet, selected, results, errCounts)
	result.Partial = partial
	if req.WantInsights() {
		result.TLDR = buildTLDR(result)
	}
	result.ExecutionTime = math.Round(time.Since(start).Seconds()*100) / 100
	result.AnalyzedAt = time.Now().UTC()

	logrus.Infof("Mentions run for %s finished: visibility %.1f, %d mentions over %d queries",
		req.CompanyName, result.VisibilityScore, result.Mentions, result.TotalQueries)

	return result, nil
}

// fanOut asks every selected platform every query. Each (query, platform)
// pair either produces a result or counts as an error for its platform, so
// responses plus errors always equals the number of attempts.
func (s *Service) fanOut(ctx context.Context, company string, competitors []string, querySet []models.Query, selected []platforms.Platform) ([]models.QueryResult, map[string]int, bool, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.opts.OverallTimeout)
	defer cancel()

	classifier := NewClassifier(company, competitors)

	// Each task writes its own slot, keeping results in query-major order
	// no matter which call finishes first.
	slots := make([]*models.QueryResult, len(querySet)*len(selected))

	var mu sync.Mutex
	errCounts := make(map[string]int, len(selected))
	for _, p := range selected {
		errCounts[p.Name()] = 0
	}

	g, groupCtx := errgroup.WithContext(runCtx)
	g.SetLimit(s.opts.MaxConcurrent)

	for qi, query := range querySet {
		for pi, platform := range selected {
			idx := qi*len(selected) + pi
			g.Go(func() error {
				if groupCtx.Err() != nil {
					mu.Lock()
					errCounts[platform.Name()]++
					mu.Unlock()
					return nil
				}

				callCtx, cancelCall := context.WithTimeout(groupCtx, s.opts.QueryTimeout)
				resp, err := platform.Ask(callCtx, query.Text)
				cancelCall()
				if err != nil {
					logrus.Warnf("Platform %s failed for query %q: %v", platform.Name(), query.Text, err)
					mu.Lock()
					errCounts[platform.Name()]++
					mu.Unlock()
					return nil
				}

				qr := models.QueryResult{
					Query:        query.Text,
					Dimension:    query.Dimension,
					Platform:     platform.Name(),
					ResponseText: resp.Text,
					SourceURLs:   resp.SourceURLs,
				}
				if mention := classifier.Classify(resp.Text); mention != nil {
					qr.CompanyMentioned = true
					qr.MentionType = mention.Type
					qr.QualityScore = mention.QualityScore
					qr.Position = mention.Position
					qr.RawMentions = mention.RawMentions
					qr.CappedMentions = mention.CappedMentions
				}
				qr.CompetitorMentions = classifier.CompetitorMentions(resp.Text)

				slots[idx] = &qr
				return nil
			})
		}
	}

	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, nil, false, ctx.Err()
	}

	partial := runCtx.Err() != nil
	if partial && s.opts.TimeoutPolicy == PolicyFail {
		return nil, nil, false, fmt.Errorf("mentions run exceeded the %s overall timeout", s.opts.OverallTimeout)
	}

	var results []models.QueryResult
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, errCounts, partial, nil
}
