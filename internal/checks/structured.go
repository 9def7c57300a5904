package checks

import (
	"fmt"
	"math"

	"github.com/scaile/openanalytics/internal/models"
)

// Recommended Organization schema fields. Completeness is the share of
// these present; 70% or better passes.
var orgRecommendedFields = []string{
	"name",
	"url",
	"logo",
	"description",
	"sameAs",
	"contactPoint",
	"address",
	"foundingDate",
}

func checkJSONLDPresent(p *Page) models.CheckResult {
	if n := len(p.jsonLD); n > 0 {
		return pass("json_ld_present", models.CategoryStructured,
			fmt.Sprintf("Found %d JSON-LD objects", n), 8)
	}
	return fail("json_ld_present", models.CategoryStructured, models.SeverityError,
		"No JSON-LD structured data found",
		"Add JSON-LD structured data so AI systems can parse the page's entities", 8)
}

func checkOrgSchema(p *Page) models.CheckResult {
	if p.organizationSchema() != nil {
		return pass("org_schema", models.CategoryStructured, "Organization schema present", 8)
	}
	return fail("org_schema", models.CategoryStructured, models.SeverityError,
		"No Organization schema found",
		"Add an Organization schema identifying the company", 8)
}

func checkOrgSchemaCompleteness(p *Page) models.CheckResult {
	org := p.organizationSchema()
	if org == nil {
		return fail("org_schema_completeness", models.CategoryStructured, models.SeverityWarning,
			"No Organization schema found",
			"Add an Organization schema with name, url, logo, description and sameAs", 7)
	}

	present := 0
	for _, field := range orgRecommendedFields {
		if hasLDField(org, field) {
			present++
		}
	}

	pct := int(math.Round(float64(present) / float64(len(orgRecommendedFields)) * 100))
	message := fmt.Sprintf("Organization schema %d%% complete (%d/%d fields)",
		pct, present, len(orgRecommendedFields))

	if pct >= 70 {
		return pass("org_schema_completeness", models.CategoryStructured, message, 7)
	}
	return fail("org_schema_completeness", models.CategoryStructured, models.SeverityWarning,
		message,
		"Fill out the Organization schema: logo, description, sameAs, contactPoint", 7)
}

func hasLDField(obj map[string]interface{}, field string) bool {
	v, ok := obj[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return true
}

func checkWebsiteSchema(p *Page) models.CheckResult {
	if p.findLDType("WebSite") != nil {
		return pass("website_schema", models.CategoryStructured, "WebSite schema present", 4)
	}
	return fail("website_schema", models.CategoryStructured, models.SeverityNotice,
		"No WebSite schema found",
		"Add a WebSite schema naming the site and its search URL", 4)
}

func checkFAQSchema(p *Page) models.CheckResult {
	if p.findLDType("FAQPage") != nil || p.findLDType("HowTo") != nil {
		return pass("faq_schema", models.CategoryStructured, "FAQ schema present", 4)
	}
	return fail("faq_schema", models.CategoryStructured, models.SeverityNotice,
		"No FAQ or HowTo schema found",
		"Add FAQPage schema; question-answer pairs are prime AI citation material", 4)
}

func checkBreadcrumbSchema(p *Page) models.CheckResult {
	if p.findLDType("BreadcrumbList") != nil {
		return pass("breadcrumb_schema", models.CategoryStructured, "Breadcrumb schema present", 3)
	}
	return fail("breadcrumb_schema", models.CategoryStructured, models.SeverityNotice,
		"No BreadcrumbList schema found",
		"Add BreadcrumbList schema so AI systems understand the site structure", 3)
}
