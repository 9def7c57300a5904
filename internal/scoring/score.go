// Package scoring turns check results into tiered health scores and maps
// scores to grades and visibility bands.
//
// The funnel behind the tiers:
//
//	Tier 0: can AI access the site at all? If not, nothing else matters.
//	Tier 1: can AI identify the entity? Organization schema, title, HTTPS.
//	Tier 2: is the site well optimized? Schema completeness, content depth.
//
// The final score is the minimum of the tier caps and the impact-weighted
// base score.
package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/scaile/openanalytics/internal/models"
)

var aiCrawlerChecks = []string{
	"gptbot_access",
	"claude_access",
	"perplexitybot_access",
	"ccbot_access",
}

var percentPattern = regexp.MustCompile(`(\d+)%`)

// BaseScore is the impact-weighted pass ratio across all checks, 0-100.
// Failed checks earn partial credit by severity: notices keep 70% of their
// impact, warnings 30%, errors nothing.
func BaseScore(checks []models.CheckResult) float64 {
	var totalImpact, earnedImpact float64

	for _, c := range checks {
		impact := c.ScoreImpact
		if impact == 0 {
			impact = 5
		}
		totalImpact += impact

		switch {
		case c.Passed:
			earnedImpact += impact
		case c.Severity == models.SeverityNotice:
			earnedImpact += impact * 0.7
		case c.Severity == models.SeverityWarning:
			earnedImpact += impact * 0.3
		}
	}

	if totalImpact == 0 {
		return 0
	}
	return earnedImpact / totalImpact * 100
}

// TieredScore computes the final health score: the minimum of the three
// tier caps and the base score, rounded to one decimal. The returned
// details name the limiting tier, the first tier whose cap is within one
// point of the final score.
func TieredScore(checks []models.CheckResult) (float64, models.TierDetails) {
	tier0 := evaluateTier0(checks)
	tier1 := evaluateTier1(checks)
	tier2 := evaluateTier2(checks)
	base := BaseScore(checks)

	final := math.Min(math.Min(tier0.Cap, tier1.Cap), math.Min(tier2.Cap, base))

	limitingTier := "base"
	limitingReason := "Check performance"
	switch {
	case tier0.Cap <= final+1:
		limitingTier, limitingReason = "tier0", tier0.Reason
	case tier1.Cap <= final+1:
		limitingTier, limitingReason = "tier1", tier1.Reason
	case tier2.Cap <= final+1:
		limitingTier, limitingReason = "tier2", tier2.Reason
	}

	details := models.TierDetails{
		Tier0:          tier0,
		Tier1:          tier1,
		Tier2:          tier2,
		BaseScore:      round1(base),
		LimitingTier:   limitingTier,
		LimitingReason: limitingReason,
	}

	return round1(final), details
}

// evaluateTier0 applies the critical gates: blocking all AI crawlers makes
// the site invisible, a noindex directive keeps it out of AI indexes.
func evaluateTier0(checks []models.CheckResult) models.TierCap {
	blocked := 0
	for _, c := range checks {
		if !c.Passed && isCrawlerCheck(c.Check) {
			blocked++
		}
	}

	if blocked >= 4 {
		return models.TierCap{Cap: 10, Reason: "Blocks all AI crawlers - invisible to AI"}
	}
	if blocked >= 3 {
		return models.TierCap{Cap: 25, Reason: "Blocks most AI crawlers (3/4)"}
	}

	for _, c := range checks {
		if c.Check == "robots_meta" && !c.Passed && strings.Contains(strings.ToLower(c.Message), "noindex") {
			return models.TierCap{Cap: 5, Reason: "Has noindex - won't be indexed by AI"}
		}
	}

	return models.TierCap{Passed: true, Cap: 100, Reason: "AI can access site"}
}

// evaluateTier1 applies the essentials: Organization schema, a title tag
// and HTTPS. Schema and title presence are read from the check messages so
// a partially complete schema still counts as present.
func evaluateTier1(checks []models.CheckResult) models.TierCap {
	var hasOrgSchema, hasTitle, hasHTTPS bool

	for _, c := range checks {
		msg := strings.ToLower(c.Message)
		switch c.Check {
		case "org_schema_completeness":
			if !strings.Contains(msg, "no organization schema") {
				hasOrgSchema = true
			}
		case "title_tag":
			if !strings.Contains(msg, "missing title") {
				hasTitle = true
			}
		case "https":
			if c.Passed {
				hasHTTPS = true
			}
		}
	}

	if !hasOrgSchema {
		return models.TierCap{Cap: 45, Reason: "Missing Organization schema - AI can't identify entity"}
	}

	var missing []string
	if !hasTitle {
		missing = append(missing, "title tag")
	}
	if !hasHTTPS {
		missing = append(missing, "HTTPS")
	}
	if len(missing) > 0 {
		return models.TierCap{Cap: 55, Reason: "Missing essentials: " + strings.Join(missing, ", ")}
	}

	return models.TierCap{Passed: true, Cap: 100, Reason: "Has essential elements"}
}

// evaluateTier2 applies the important optimizations ladder. Issues are
// graded important (incomplete Organization schema, no sameAs links) or
// minor (no meta description, thin content) and cap the score accordingly.
func evaluateTier2(checks []models.CheckResult) models.TierCap {
	var orgComplete, orgPartial, hasMetaDesc, goodContent, hasSameAs bool

	for _, c := range checks {
		msg := strings.ToLower(c.Message)
		switch c.Check {
		case "org_schema_completeness":
			if !strings.Contains(msg, "no organization schema") {
				orgPartial = true
				if m := percentPattern.FindStringSubmatch(c.Message); m != nil {
					if pct, err := strconv.Atoi(m[1]); err == nil && pct >= 70 {
						orgComplete = true
					}
				}
			}
		case "meta_description":
			if !strings.Contains(msg, "missing") {
				hasMetaDesc = true
			}
		case "content_word_count":
			if c.Passed {
				goodContent = true
			}
		case "sameas_links":
			if c.Passed {
				hasSameAs = true
			}
		}
	}

	var important, minor []string
	if orgPartial && !orgComplete {
		important = append(important, "incomplete Organization schema")
	}
	if !hasSameAs {
		important = append(important, "no sameAs links")
	}
	if !hasMetaDesc {
		minor = append(minor, "no meta description")
	}
	if !goodContent {
		minor = append(minor, "thin content")
	}

	switch {
	case len(important) >= 2:
		return models.TierCap{Cap: 75, Reason: "Issues: " + strings.Join(important, ", ")}
	case len(important) == 1:
		return models.TierCap{Cap: 85, Reason: "Issue: " + important[0]}
	case len(minor) >= 2:
		return models.TierCap{Cap: 90, Reason: "Minor issues: " + strings.Join(minor, ", ")}
	case len(minor) == 1:
		return models.TierCap{Cap: 95, Reason: "Minor: " + minor[0]}
	}

	return models.TierCap{Passed: true, Cap: 100, Reason: "Excellent AEO optimization"}
}

func isCrawlerCheck(name string) bool {
	for _, c := range aiCrawlerChecks {
		if c == name {
			return true
		}
	}
	return false
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
