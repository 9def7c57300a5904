package mentions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scaile/openanalytics/internal/models"
)

// buildTLDR derives the executive summary from the aggregates. It is fully
// deterministic: two identical runs produce identical summaries, and map
// iteration is always sorted.
func buildTLDR(result *models.MentionsResult) *models.TLDR {
	return &models.TLDR{
		VisibilityAssessment:      visibilityAssessment(result),
		BrandConfusionRisk:        confusionRisk(result),
		KeyInsights:               keyInsights(result),
		ActionableRecommendations: recommendations(result),
	}
}

func visibilityAssessment(result *models.MentionsResult) string {
	return fmt.Sprintf("%s has %s AI visibility: mentioned in %.1f%% of AI answers",
		result.Company, strings.ToLower(result.Band), result.VisibilityScore)
}

func confusionRisk(result *models.MentionsResult) string {
	competitorTotal := competitorMentionTotal(result)
	switch {
	case competitorTotal > result.Mentions:
		return fmt.Sprintf("High: competitors were mentioned %d times against %d brand mentions",
			competitorTotal, result.Mentions)
	case competitorTotal > 0:
		return fmt.Sprintf("Medium: competitors were mentioned %d times", competitorTotal)
	default:
		return "Low: no competitor mentions were detected"
	}
}

func keyInsights(result *models.MentionsResult) []string {
	var insights []string

	names := make([]string, 0, len(result.PlatformStats))
	for name := range result.PlatformStats {
		names = append(names, name)
	}
	sort.Strings(names)

	best, worst := "", ""
	for _, name := range names {
		st := result.PlatformStats[name]
		if best == "" || st.Mentions > result.PlatformStats[best].Mentions {
			best = name
		}
		if worst == "" || st.Mentions < result.PlatformStats[worst].Mentions {
			worst = name
		}
	}
	if best != "" {
		st := result.PlatformStats[best]
		insights = append(insights, fmt.Sprintf("%s mentions %s most often (%d of %d answers)",
			best, result.Company, st.Mentions, st.Responses))
	}
	if worst != "" && worst != best {
		st := result.PlatformStats[worst]
		insights = append(insights, fmt.Sprintf("%s mentions %s least often (%d of %d answers)",
			worst, result.Company, st.Mentions, st.Responses))
	}

	dims := make([]string, 0, len(result.DimensionStats))
	for dim := range result.DimensionStats {
		dims = append(dims, dim)
	}
	sort.Strings(dims)

	bestDim, bestRate := "", -1.0
	for _, dim := range dims {
		st := result.DimensionStats[dim]
		if st.Queries == 0 {
			continue
		}
		if rate := float64(st.Mentions) / float64(st.Queries); rate > bestRate {
			bestDim, bestRate = dim, rate
		}
	}
	if bestDim != "" && result.Mentions > 0 {
		insights = append(insights, fmt.Sprintf("%s queries surface %s most reliably",
			strings.ToLower(bestDim), result.Company))
	}

	totalErrors := 0
	for _, name := range names {
		totalErrors += result.PlatformStats[name].Errors
	}
	if totalErrors > 0 {
		insights = append(insights, fmt.Sprintf("%d platform calls failed during the run", totalErrors))
	}

	return insights
}

func recommendations(result *models.MentionsResult) []string {
	var recs []string

	if result.VisibilityScore < 45 {
		recs = append(recs, "Publish comparison and list-style content that AI assistants can cite for category queries")
	}
	if st, ok := result.DimensionStats[models.DimensionUnbranded]; ok && st.Queries > 0 && st.Mentions == 0 {
		recs = append(recs, "Target unbranded category queries: the brand never surfaced when buyers asked without naming it")
	}
	if result.Mentions > 0 && result.QualityScore < 5 {
		recs = append(recs, "Convert passing mentions into recommendations with authoritative product pages and reviews")
	}
	if competitorMentionTotal(result) > result.Mentions {
		recs = append(recs, "Close the competitor gap with head-to-head comparison pages")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep the current content strategy and re-measure monthly to hold position")
	}

	return recs
}

func competitorMentionTotal(result *models.MentionsResult) int {
	total := 0
	for _, r := range result.Results {
		for _, n := range r.CompetitorMentions {
			total += n
		}
	}
	return total
}
