package mentions

import (
	"math"

	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/platforms"
	"github.com/scaile/openanalytics/internal/scoring"
)

// aggregate folds per-(query, platform) outcomes into the run result.
//
// Visibility is the share of queries where at least one platform mentioned
// the company. Presence is the share of attempts that got any answer back.
// Quality is the mean mention quality, 0 when nothing was mentioned.
func aggregate(company, mode string, querySet []models.Query, selected []platforms.Platform, results []models.QueryResult, errCounts map[string]int) *models.MentionsResult {
	platformStats := make(map[string]*models.PlatformStats, len(selected))
	for _, p := range selected {
		platformStats[p.Name()] = &models.PlatformStats{
			Queries: len(querySet),
			Errors:  errCounts[p.Name()],
		}
	}

	dimensionStats := make(map[string]*models.DimensionStats)
	for _, q := range querySet {
		if _, ok := dimensionStats[q.Dimension]; !ok {
			dimensionStats[q.Dimension] = &models.DimensionStats{}
		}
		dimensionStats[q.Dimension].Queries++
	}

	mentioned := make(map[string]bool, len(querySet))
	platQualitySum := make(map[string]float64)
	dimQualitySum := make(map[string]float64)
	totalQuality := 0.0
	totalEvents := 0

	for _, r := range results {
		if st, ok := platformStats[r.Platform]; ok {
			st.Responses++
			if r.CompanyMentioned {
				st.Mentions++
				platQualitySum[r.Platform] += r.QualityScore
			}
		}
		if r.CompanyMentioned {
			if st, ok := dimensionStats[r.Dimension]; ok {
				st.Mentions++
				dimQualitySum[r.Dimension] += r.QualityScore
			}
			mentioned[r.Query] = true
			totalEvents++
			totalQuality += r.QualityScore
		}
	}

	for name, st := range platformStats {
		if st.Mentions > 0 {
			st.QualityScore = round1(platQualitySum[name] / float64(st.Mentions))
		}
	}
	for dim, st := range dimensionStats {
		if st.Mentions > 0 {
			st.QualityScore = round1(dimQualitySum[dim] / float64(st.Mentions))
		}
	}

	visibility := 0.0
	if len(querySet) > 0 {
		visibility = round1(100 * float64(len(mentioned)) / float64(len(querySet)))
	}

	presence := 0.0
	if attempts := len(querySet) * len(selected); attempts > 0 {
		presence = round1(100 * float64(len(results)) / float64(attempts))
	}

	quality := 0.0
	if totalEvents > 0 {
		quality = round1(totalQuality / float64(totalEvents))
	}

	band, color := scoring.VisibilityBand(visibility)

	return &models.MentionsResult{
		Company:         company,
		Mode:            mode,
		VisibilityScore: visibility,
		PresenceRate:    presence,
		QualityScore:    quality,
		Band:            band,
		BandColor:       color,
		TotalQueries:    len(querySet),
		Mentions:        totalEvents,
		PlatformStats:   platformStats,
		DimensionStats:  dimensionStats,
		Results:         results,
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
