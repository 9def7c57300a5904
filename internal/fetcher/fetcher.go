// Package fetcher retrieves website snapshots for health checks: the page
// HTML with response latency, the robots.txt body, and whether a sitemap is
// discoverable. JavaScript-heavy pages fall back to headless rendering.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const userAgent = "Mozilla/5.0 (compatible; AEO-HealthCheck/2.5; +https://scaile.tech)"

// minContentLength is the minimum extracted text length to accept a plain
// HTTP fetch. Shorter pages are likely JavaScript-rendered shells.
const minContentLength = 500

// cloudflarePatterns mark challenge interstitials served instead of the
// real page.
var cloudflarePatterns = []string{
	"Checking your browser",
	"cf-browser-verification",
	"Just a moment...",
	"_cf_chl_opt",
	"Attention Required! | Cloudflare",
	"Please Wait... | Cloudflare",
	"Enable JavaScript and cookies to continue",
	"cf-spinner",
	"challenge-platform",
	"checking your connection",
	"Verifying you are human",
	"We're currently checking",
}

// Snapshot is everything the check battery needs about a fetched site.
type Snapshot struct {
	URL              string // final URL after redirects
	HTML             string
	StatusCode       int
	ResponseTimeMS   int64 // main document fetch only
	TotalFetchTimeMS int64 // including robots.txt, sitemap probe and rendering
	JSRendered       bool
	RobotsTxt        string
	RobotsFound      bool
	SitemapFound     bool
}

// Renderer renders a page with JavaScript executed.
type Renderer interface {
	RenderHTML(ctx context.Context, pageURL string) (string, error)
}

// Options configure a Fetcher.
type Options struct {
	Timeout  time.Duration // per HTTP request, default 30s
	EnableJS bool          // allow the headless rendering fallback
	Renderer Renderer      // nil with EnableJS selects the chromedp renderer
}

// Fetcher retrieves website snapshots.
type Fetcher struct {
	client   *resty.Client
	renderer Renderer
	enableJS bool
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	renderer := opts.Renderer
	if renderer == nil && opts.EnableJS {
		renderer = &ChromeRenderer{Timeout: opts.Timeout}
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetHeader("Cache-Control", "no-cache")

	return &Fetcher{client: client, renderer: renderer, enableJS: opts.EnableJS && renderer != nil}
}

// Fetch retrieves the page and its robots.txt, measuring latency. It errors
// when the site cannot be fetched at all or serves a challenge page that
// rendering cannot get past; thin or broken content is not an error, the
// checks grade it.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Snapshot, error) {
	start := time.Now()

	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	snap := &Snapshot{
		URL:            finalURL(resp, pageURL),
		HTML:           string(resp.Body()),
		StatusCode:     resp.StatusCode(),
		ResponseTimeMS: time.Since(start).Milliseconds(),
	}

	if snap.StatusCode >= 400 {
		return nil, fmt.Errorf("website returned HTTP %d", snap.StatusCode)
	}

	challenged := isChallengePage(snap.HTML)
	if f.enableJS && (challenged || extractedTextLength(snap.HTML) < minContentLength) {
		logrus.Debugf("Falling back to headless rendering for %s (challenged=%v)", pageURL, challenged)
		rendered, renderErr := f.renderer.RenderHTML(ctx, pageURL)
		switch {
		case renderErr == nil:
			snap.HTML = rendered
			snap.JSRendered = true
			challenged = isChallengePage(rendered)
		case challenged:
			return nil, fmt.Errorf("blocked by a browser challenge and rendering failed: %w", renderErr)
		default:
			logrus.Warnf("Headless rendering failed for %s, keeping plain HTML: %v", pageURL, renderErr)
		}
	}
	if challenged {
		return nil, fmt.Errorf("blocked by a browser challenge (Cloudflare)")
	}

	f.fetchRobots(ctx, snap)
	snap.TotalFetchTimeMS = time.Since(start).Milliseconds()

	return snap, nil
}

func (f *Fetcher) fetchRobots(ctx context.Context, snap *Snapshot) {
	parsed, err := url.Parse(snap.URL)
	if err != nil || parsed.Host == "" {
		return
	}
	base := parsed.Scheme + "://" + parsed.Host

	resp, err := f.client.R().SetContext(ctx).Get(base + "/robots.txt")
	if err == nil && resp.StatusCode() == http.StatusOK {
		snap.RobotsTxt = string(resp.Body())
		snap.RobotsFound = true
	}

	snap.SitemapFound = f.findSitemap(ctx, base, snap.RobotsTxt)
}

// findSitemap trusts a Sitemap directive in robots.txt and only probes the
// conventional /sitemap.xml location when robots.txt lists none.
func (f *Fetcher) findSitemap(ctx context.Context, base, robotsTxt string) bool {
	if robotsListsSitemap(robotsTxt) {
		return true
	}
	resp, err := f.client.R().SetContext(ctx).Get(base + "/sitemap.xml")
	return err == nil && resp.StatusCode() == http.StatusOK
}

func robotsListsSitemap(robotsTxt string) bool {
	for _, line := range strings.Split(robotsTxt, "\n") {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "sitemap:") {
			return true
		}
	}
	return false
}

func isChallengePage(html string) bool {
	for _, pattern := range cloudflarePatterns {
		if strings.Contains(html, pattern) {
			return true
		}
	}
	return false
}

// extractedTextLength measures visible text, ignoring scripts and styles.
func extractedTextLength(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return len(html)
	}
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	return len(strings.TrimSpace(body.Text()))
}

func finalURL(resp *resty.Response, fallback string) string {
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		return resp.RawResponse.Request.URL.String()
	}
	return fallback
}
