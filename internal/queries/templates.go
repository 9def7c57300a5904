package queries

import (
	"fmt"
	"strings"

	"github.com/scaile/openanalytics/internal/models"
)

// Modifiers appended to template queries when more variants are needed.
// The empty modifier comes first so the plain form is always used.
var templateModifiers = []string{
	"",
	" in 2025",
	" for startups",
	" for small businesses",
	" for enterprise teams",
	" with the best support",
	" with transparent pricing",
}

// fallbackQueries builds up to need deterministic queries for one
// dimension from the company profile, skipping texts already in seen.
// Used when the model generator is unavailable or came up short.
func fallbackQueries(dim string, profile models.CompanyAnalysis, country string, need int, seen map[string]bool) []models.Query {
	if need <= 0 {
		return nil
	}

	bases := templateBases(dim, profile, country)
	out := make([]models.Query, 0, need)

	for _, mod := range templateModifiers {
		for _, base := range bases {
			if len(out) >= need {
				return out
			}
			text := base + mod
			key := strings.ToLower(text)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, models.Query{Text: text, Dimension: dim})
		}
	}

	return out
}

func templateBases(dim string, profile models.CompanyAnalysis, country string) []string {
	info := profile.CompanyInfo
	offerings := info.Offerings()
	if len(offerings) == 0 && info.Industry != "" {
		offerings = []string{info.Industry + " services"}
	}
	if len(offerings) == 0 {
		offerings = []string{"services"}
	}

	audience := info.TargetAudience
	if audience == "" {
		audience = "businesses"
	}

	region := country
	if region == "" {
		region = "my region"
	}

	var bases []string
	switch dim {
	case models.DimensionUnbranded:
		for _, o := range offerings {
			o = strings.ToLower(o)
			bases = append(bases,
				fmt.Sprintf("best %s for %s", o, strings.ToLower(audience)),
				fmt.Sprintf("top rated %s providers", o),
				fmt.Sprintf("how to choose a %s provider", o),
				fmt.Sprintf("most recommended %s in %s", o, region),
				fmt.Sprintf("what should I look for in a %s", o),
				fmt.Sprintf("affordable %s options", o),
				fmt.Sprintf("%s comparison guide", o),
				fmt.Sprintf("who offers reliable %s", o),
			)
		}
	case models.DimensionCompetitive:
		competitors := profile.CompetitorNames()
		for _, comp := range competitors {
			bases = append(bases,
				fmt.Sprintf("alternatives to %s", comp),
				fmt.Sprintf("%s vs %s which is better", info.Name, comp),
				fmt.Sprintf("is there anything better than %s", comp),
			)
		}
		for _, o := range offerings {
			o = strings.ToLower(o)
			bases = append(bases,
				fmt.Sprintf("compare the leading %s providers", o),
				fmt.Sprintf("which %s provider has the best reviews", o),
			)
		}
	case models.DimensionBranded:
		bases = append(bases,
			fmt.Sprintf("%s reviews", info.Name),
			fmt.Sprintf("is %s legit", info.Name),
			fmt.Sprintf("what does %s offer", info.Name),
			fmt.Sprintf("%s pricing", info.Name),
			fmt.Sprintf("how good is %s", info.Name),
		)
	}

	return bases
}
