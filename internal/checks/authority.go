package checks

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scaile/openanalytics/internal/models"
)

func checkSameAsLinks(p *Page) models.CheckResult {
	links := p.sameAsLinks()
	if len(links) > 0 {
		return pass("sameas_links", models.CategoryAuthority,
			fmt.Sprintf("%d sameAs links found", len(links)), 6)
	}
	return fail("sameas_links", models.CategoryAuthority, models.SeverityWarning,
		"No sameAs links found",
		"Add sameAs links to official profiles; they anchor the knowledge graph entry", 6)
}

func checkContactInfo(p *Page) models.CheckResult {
	found := false
	p.doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.ToLower(href)
		if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.Contains(href, "contact") {
			found = true
			return false
		}
		return true
	})

	if found {
		return pass("contact_info", models.CategoryAuthority, "Contact information found", 4)
	}
	return fail("contact_info", models.CategoryAuthority, models.SeverityNotice,
		"No contact information found",
		"Link a contact page or publish a contact email", 4)
}

func checkAboutPage(p *Page) models.CheckResult {
	found := false
	p.doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(strings.ToLower(href), "about") {
			found = true
			return false
		}
		return true
	})

	if found {
		return pass("about_page", models.CategoryAuthority, "About page linked", 3)
	}
	return fail("about_page", models.CategoryAuthority, models.SeverityNotice,
		"No about page link found",
		"Publish an about page describing the company", 3)
}
