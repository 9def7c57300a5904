package checks

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Input carries everything the battery needs about a fetched page.
type Input struct {
	URL          string
	HTML         string
	HTTPStatus   int
	LatencyMS    int64
	RobotsTxt    string
	RobotsFound  bool
	SitemapFound bool
}

// Page is a parsed snapshot of a website, ready for the check battery.
type Page struct {
	Input

	doc       *goquery.Document
	parsedURL *url.URL
	robots    *RobotsRules
	jsonLD    []map[string]interface{}
	wordCount int
}

// NewPage parses the snapshot. HTML that fails to parse is an error here;
// fetch failures are handled upstream before a Page exists.
func NewPage(in Input) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	parsed, err := url.Parse(in.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", in.URL, err)
	}

	p := &Page{
		Input:     in,
		doc:       doc,
		parsedURL: parsed,
		robots:    ParseRobots(in.RobotsTxt),
	}
	p.jsonLD = extractJSONLD(doc)
	p.wordCount = countContentWords(doc)
	return p, nil
}

// extractJSONLD decodes every JSON-LD script block into generic objects.
// Arrays and @graph containers are flattened; blocks that fail to decode
// are skipped.
func extractJSONLD(doc *goquery.Document) []map[string]interface{} {
	var objects []map[string]interface{}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var decoded interface{}
		if err := json.Unmarshal([]byte(s.Text()), &decoded); err != nil {
			return
		}
		objects = append(objects, flattenLD(decoded)...)
	})

	return objects
}

func flattenLD(node interface{}) []map[string]interface{} {
	switch v := node.(type) {
	case []interface{}:
		var out []map[string]interface{}
		for _, item := range v {
			out = append(out, flattenLD(item)...)
		}
		return out
	case map[string]interface{}:
		out := []map[string]interface{}{v}
		if graph, ok := v["@graph"]; ok {
			out = append(out, flattenLD(graph)...)
		}
		return out
	default:
		return nil
	}
}

// countContentWords counts words in the page body with navigation, script
// and boilerplate nodes removed.
func countContentWords(doc *goquery.Document) int {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, nav, header, footer, aside, iframe, svg").Remove()
	return len(strings.Fields(body.Text()))
}

// ldTypes returns the @type values of a JSON-LD object.
func ldTypes(obj map[string]interface{}) []string {
	switch t := obj["@type"].(type) {
	case string:
		return []string{t}
	case []interface{}:
		var out []string
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// findLDType returns the first JSON-LD object carrying the given @type.
func (p *Page) findLDType(typeName string) map[string]interface{} {
	for _, obj := range p.jsonLD {
		for _, t := range ldTypes(obj) {
			if strings.EqualFold(t, typeName) {
				return obj
			}
		}
	}
	return nil
}

// organizationSchema returns the page's Organization JSON-LD object, if any.
func (p *Page) organizationSchema() map[string]interface{} {
	return p.findLDType("Organization")
}

// sameAsLinks returns the sameAs entries of the Organization schema.
func (p *Page) sameAsLinks() []string {
	org := p.organizationSchema()
	if org == nil {
		return nil
	}

	var links []string
	switch v := org["sameAs"].(type) {
	case string:
		if v != "" {
			links = append(links, v)
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				links = append(links, s)
			}
		}
	}
	return links
}
