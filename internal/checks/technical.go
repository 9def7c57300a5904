package checks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scaile/openanalytics/internal/models"
)

func checkHTTPS(p *Page) models.CheckResult {
	if p.parsedURL.Scheme == "https" {
		return pass("https", models.CategoryTechnical, "Served over HTTPS", 8)
	}
	return fail("https", models.CategoryTechnical, models.SeverityError,
		"Site not served over HTTPS",
		"Serve the site over HTTPS with a valid certificate", 8)
}

func pageTitle(p *Page) string {
	return strings.TrimSpace(p.doc.Find("head title").First().Text())
}

func checkTitleTag(p *Page) models.CheckResult {
	title := pageTitle(p)
	if title == "" {
		return fail("title_tag", models.CategoryTechnical, models.SeverityError,
			"Missing title tag",
			"Add a descriptive <title> tag naming the company and offering", 8)
	}
	return pass("title_tag", models.CategoryTechnical,
		fmt.Sprintf("Title tag present (%d chars)", len(title)), 8)
}

func checkTitleLength(p *Page) models.CheckResult {
	title := pageTitle(p)
	if title == "" {
		return fail("title_length", models.CategoryTechnical, models.SeverityWarning,
			"Missing title tag",
			"Add a title of 30-60 characters", 4)
	}
	if n := len(title); n < 30 || n > 60 {
		return fail("title_length", models.CategoryTechnical, models.SeverityWarning,
			fmt.Sprintf("Title is %d chars (recommended 30-60)", n),
			"Rewrite the title to 30-60 characters", 4)
	}
	return pass("title_length", models.CategoryTechnical,
		fmt.Sprintf("Title length is %d chars", len(title)), 4)
}

func metaContent(p *Page, name string) string {
	sel := p.doc.Find(fmt.Sprintf(`head meta[name=%q]`, name)).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func checkMetaDescription(p *Page) models.CheckResult {
	desc := metaContent(p, "description")
	if desc == "" {
		return fail("meta_description", models.CategoryTechnical, models.SeverityWarning,
			"Missing meta description",
			"Add a meta description summarizing the page in 120-160 characters", 6)
	}
	return pass("meta_description", models.CategoryTechnical,
		fmt.Sprintf("Meta description present (%d chars)", len(desc)), 6)
}

func checkMetaDescriptionLength(p *Page) models.CheckResult {
	desc := metaContent(p, "description")
	if desc == "" {
		return fail("meta_description_length", models.CategoryTechnical, models.SeverityNotice,
			"Missing meta description",
			"Add a meta description of 120-160 characters", 3)
	}
	if n := len(desc); n < 120 || n > 160 {
		return fail("meta_description_length", models.CategoryTechnical, models.SeverityNotice,
			fmt.Sprintf("Meta description is %d chars (recommended 120-160)", n),
			"Adjust the meta description to 120-160 characters", 3)
	}
	return pass("meta_description_length", models.CategoryTechnical,
		fmt.Sprintf("Meta description length is %d chars", len(desc)), 3)
}

func checkH1Presence(p *Page) models.CheckResult {
	count := p.doc.Find("h1").Length()
	switch {
	case count == 1:
		return pass("h1_presence", models.CategoryTechnical, "Exactly one H1 found", 6)
	case count == 0:
		return fail("h1_presence", models.CategoryTechnical, models.SeverityWarning,
			"No H1 heading found",
			"Add a single H1 heading stating what the page is about", 6)
	default:
		return fail("h1_presence", models.CategoryTechnical, models.SeverityWarning,
			fmt.Sprintf("Found %d H1 headings", count),
			"Keep a single H1 per page", 6)
	}
}

func checkHeadingHierarchy(p *Page) models.CheckResult {
	prev := 0
	skipped := ""
	p.doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		level, err := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		if err != nil {
			return true
		}
		if prev > 0 && level > prev+1 {
			skipped = fmt.Sprintf("Heading levels skip from h%d to h%d", prev, level)
			return false
		}
		prev = level
		return true
	})

	if skipped != "" {
		return fail("heading_hierarchy", models.CategoryTechnical, models.SeverityNotice,
			skipped,
			"Keep heading levels sequential so content sections nest cleanly", 4)
	}
	return pass("heading_hierarchy", models.CategoryTechnical, "Heading levels are sequential", 4)
}

func checkCanonicalTag(p *Page) models.CheckResult {
	href, _ := p.doc.Find(`head link[rel="canonical"]`).First().Attr("href")
	if strings.TrimSpace(href) == "" {
		return fail("canonical_tag", models.CategoryTechnical, models.SeverityWarning,
			"No canonical URL declared",
			"Add a rel=canonical link to prevent duplicate-content dilution", 5)
	}
	return pass("canonical_tag", models.CategoryTechnical, "Canonical URL declared", 5)
}

func checkRobotsMeta(p *Page) models.CheckResult {
	directives := strings.ToLower(metaContent(p, "robots"))
	if strings.Contains(directives, "noindex") {
		return fail("robots_meta", models.CategoryTechnical, models.SeverityError,
			"Robots meta contains noindex",
			"Remove the noindex directive so AI systems can index the page", 8)
	}
	if strings.Contains(directives, "nofollow") {
		return fail("robots_meta", models.CategoryTechnical, models.SeverityWarning,
			"Robots meta contains nofollow",
			"Remove the nofollow directive unless links must not be crawled", 8)
	}
	return pass("robots_meta", models.CategoryTechnical, "No blocking robots directives", 8)
}

func checkSitemap(p *Page) models.CheckResult {
	if p.SitemapFound {
		return pass("sitemap", models.CategoryTechnical, "Sitemap found", 5)
	}
	return fail("sitemap", models.CategoryTechnical, models.SeverityWarning,
		"No sitemap.xml found",
		"Publish a sitemap.xml and reference it from robots.txt", 5)
}

func checkResponseTime(p *Page) models.CheckResult {
	if p.LatencyMS < 2000 {
		return pass("response_time", models.CategoryTechnical,
			fmt.Sprintf("Responded in %dms", p.LatencyMS), 5)
	}
	return fail("response_time", models.CategoryTechnical, models.SeverityWarning,
		fmt.Sprintf("Slow response (%dms)", p.LatencyMS),
		"Bring server response time under 2 seconds", 5)
}

func checkContentWordCount(p *Page) models.CheckResult {
	if p.wordCount >= 300 {
		return pass("content_word_count", models.CategoryTechnical,
			fmt.Sprintf("Page has %d words", p.wordCount), 6)
	}
	return fail("content_word_count", models.CategoryTechnical, models.SeverityWarning,
		fmt.Sprintf("Only %d words of content", p.wordCount),
		"Add substantive content; AI systems favor pages with at least 300 words", 6)
}

func checkLangAttribute(p *Page) models.CheckResult {
	lang, _ := p.doc.Find("html").Attr("lang")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return fail("lang_attribute", models.CategoryTechnical, models.SeverityNotice,
			"No lang attribute on <html>",
			"Declare the page language on the <html> element", 3)
	}
	return pass("lang_attribute", models.CategoryTechnical,
		fmt.Sprintf("Language declared (%s)", lang), 3)
}

func checkHreflangTags(p *Page) models.CheckResult {
	count := p.doc.Find(`head link[rel="alternate"][hreflang]`).Length()
	if count > 0 {
		return pass("hreflang_tags", models.CategoryTechnical,
			fmt.Sprintf("%d hreflang alternates declared", count), 2)
	}
	return fail("hreflang_tags", models.CategoryTechnical, models.SeverityNotice,
		"No hreflang alternate links",
		"Declare hreflang alternates if the site serves multiple locales", 2)
}

func checkViewportMeta(p *Page) models.CheckResult {
	if metaContent(p, "viewport") != "" {
		return pass("viewport_meta", models.CategoryTechnical, "Viewport meta present", 4)
	}
	return fail("viewport_meta", models.CategoryTechnical, models.SeverityNotice,
		"No viewport meta tag",
		"Add a viewport meta tag for mobile rendering", 4)
}

func checkOpenGraph(p *Page) models.CheckResult {
	count := p.doc.Find(`head meta[property="og:title"], head meta[property="og:description"]`).Length()
	if count > 0 {
		return pass("open_graph", models.CategoryTechnical, "Open Graph tags present", 3)
	}
	return fail("open_graph", models.CategoryTechnical, models.SeverityNotice,
		"No Open Graph tags",
		"Add og:title and og:description for link previews", 3)
}
