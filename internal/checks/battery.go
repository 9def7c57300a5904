// Package checks implements the website health check battery: 16 technical
// SEO checks, 6 structured data checks, 4 AI crawler access checks and 3
// authority checks. Every check is a pure function of the page snapshot and
// reports failure as a result, never as an error.
package checks

import "github.com/scaile/openanalytics/internal/models"

type checkFunc func(*Page) models.CheckResult

var battery = []checkFunc{
	// Technical SEO
	checkHTTPS,
	checkTitleTag,
	checkTitleLength,
	checkMetaDescription,
	checkMetaDescriptionLength,
	checkH1Presence,
	checkHeadingHierarchy,
	checkCanonicalTag,
	checkRobotsMeta,
	checkSitemap,
	checkResponseTime,
	checkContentWordCount,
	checkLangAttribute,
	checkHreflangTags,
	checkViewportMeta,
	checkOpenGraph,

	// Structured data
	checkJSONLDPresent,
	checkOrgSchema,
	checkOrgSchemaCompleteness,
	checkWebsiteSchema,
	checkFAQSchema,
	checkBreadcrumbSchema,

	// AI crawler access
	checkGPTBotAccess,
	checkClaudeAccess,
	checkPerplexityBotAccess,
	checkCCBotAccess,

	// Authority
	checkSameAsLinks,
	checkContactInfo,
	checkAboutPage,
}

// Run executes the full battery in its fixed order.
func Run(p *Page) []models.CheckResult {
	results := make([]models.CheckResult, 0, len(battery))
	for _, check := range battery {
		results = append(results, check(p))
	}
	return results
}

// Count is the number of checks in the battery.
func Count() int {
	return len(battery)
}

func pass(check, category, message string, impact float64) models.CheckResult {
	return models.CheckResult{
		Check:       check,
		Category:    category,
		Passed:      true,
		Severity:    models.SeverityPass,
		Message:     message,
		ScoreImpact: impact,
	}
}

func fail(check, category, severity, message, recommendation string, impact float64) models.CheckResult {
	return models.CheckResult{
		Check:          check,
		Category:       category,
		Passed:         false,
		Severity:       severity,
		Message:        message,
		Recommendation: recommendation,
		ScoreImpact:    impact,
	}
}
