// Package reports renders a completed analysis into a standalone HTML
// document suitable for emailing, archiving, or PDF conversion.
package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/scaile/openanalytics/internal/models"
)

// Report themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Options control report presentation.
type Options struct {
	Theme string // ThemeDark (default) or ThemeLight
}

// RenderHTML renders a combined analysis into a self-contained HTML report.
// Missing halves (a health-only or mentions-only result) drop their sections
// rather than failing.
func RenderHTML(result *models.MasterResult, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, buildData(result, opts)); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

var platformNames = map[string]string{
	"gemini":     "Gemini",
	"chatgpt":    "ChatGPT",
	"perplexity": "Perplexity",
	"claude":     "Claude",
	"mistral":    "Mistral",
}

var categoryNames = map[string]string{
	models.CategoryTechnical:  "Technical SEO",
	models.CategoryStructured: "Structured Data",
	models.CategoryCrawler:    "AI Crawler Access",
	models.CategoryAuthority:  "Authority Signals",
}

var categoryOrder = []string{
	models.CategoryTechnical,
	models.CategoryStructured,
	models.CategoryCrawler,
	models.CategoryAuthority,
}

type scoreCard struct {
	Title string
	Value string
	Badge string
	Class string
	Width float64
}

type categoryRow struct {
	Name   string
	Score  string
	Passed int
	Total  int
}

type platformRow struct {
	Name      string
	Queries   int
	Responses int
	Mentions  int
	Errors    int
	Quality   string
}

type checkRow struct {
	Check          string
	Severity       string
	Message        string
	Recommendation string
}

type reportData struct {
	Company        string
	URL            string
	Date           string
	Styles         template.CSS
	Cards          []scoreCard
	Categories     []categoryRow
	BaseScore      string
	LimitingTier   string
	LimitingReason string
	Partial        bool
	Platforms      []platformRow
	Assessment     string
	Insights       []string
	FailedChecks   []checkRow
	Strategic      []string
	Priority       []string
}

func buildData(result *models.MasterResult, opts Options) *reportData {
	data := &reportData{
		Company:   result.Company,
		URL:       result.URL,
		Date:      result.GeneratedAt.Format("January 2, 2006"),
		Styles:    styles(opts.Theme),
		Strategic: result.StrategicRecommendations,
		Priority:  result.PriorityActions,
	}

	data.Cards = append(data.Cards, newScoreCard("Combined Score", result.CombinedScore, result.CombinedGrade))

	if h := result.Health; h != nil {
		data.Cards = append(data.Cards, newScoreCard("Website Health", h.Score, h.Grade))
		for _, cat := range categoryOrder {
			rollup, ok := h.Categories[cat]
			if !ok {
				continue
			}
			data.Categories = append(data.Categories, categoryRow{
				Name:   categoryNames[cat],
				Score:  fmt.Sprintf("%.1f", rollup.Score),
				Passed: rollup.Passed,
				Total:  rollup.Total,
			})
		}
		data.BaseScore = fmt.Sprintf("%.1f", h.TierDetails.BaseScore)
		data.LimitingTier = h.TierDetails.LimitingTier
		data.LimitingReason = h.TierDetails.LimitingReason
		for _, c := range h.FailedChecks() {
			data.FailedChecks = append(data.FailedChecks, checkRow{
				Check:          strings.ReplaceAll(c.Check, "_", " "),
				Severity:       c.Severity,
				Message:        c.Message,
				Recommendation: c.Recommendation,
			})
		}
	}

	if m := result.Mentions; m != nil {
		data.Cards = append(data.Cards, newScoreCard("AI Visibility", m.VisibilityScore, m.Band))
		data.Partial = m.Partial
		for _, name := range sortedPlatforms(m.PlatformStats) {
			stats := m.PlatformStats[name]
			data.Platforms = append(data.Platforms, platformRow{
				Name:      displayName(name),
				Queries:   stats.Queries,
				Responses: stats.Responses,
				Mentions:  stats.Mentions,
				Errors:    stats.Errors,
				Quality:   fmt.Sprintf("%.1f", stats.QualityScore),
			})
		}
		if m.TLDR != nil {
			data.Assessment = m.TLDR.VisibilityAssessment
			data.Insights = m.TLDR.KeyInsights
		}
	}

	return data
}

func newScoreCard(title string, score float64, badge string) scoreCard {
	width := score
	if width < 0 {
		width = 0
	}
	if width > 100 {
		width = 100
	}
	return scoreCard{
		Title: title,
		Value: fmt.Sprintf("%.1f", score),
		Badge: badge,
		Class: scoreClass(score),
		Width: width,
	}
}

func scoreClass(score float64) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 70:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "poor"
	}
}

func displayName(platform string) string {
	if name, ok := platformNames[platform]; ok {
		return name
	}
	return strings.ToUpper(platform[:1]) + platform[1:]
}

func sortedPlatforms(stats map[string]*models.PlatformStats) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func styles(theme string) template.CSS {
	bg, text, card, border := "#18181b", "#e0e0e0", "#262626", "#333"
	if theme == ThemeLight {
		bg, text, card, border = "#ffffff", "#1a1a1a", "#f5f5f5", "#ddd"
	}

	return template.CSS(fmt.Sprintf(`
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
    background: %[1]s;
    color: %[2]s;
    line-height: 1.6;
    padding: 20px;
}
.report-container {
    max-width: 1200px;
    margin: 0 auto;
    background: %[3]s;
    border-radius: 12px;
    padding: 40px;
    box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
}
.report-header {
    text-align: center;
    margin-bottom: 40px;
    padding-bottom: 20px;
    border-bottom: 2px solid %[4]s;
}
.report-header h1 { font-size: 2.5em; margin-bottom: 10px; }
.report-header .date { opacity: 0.7; font-size: 0.9em; }
.report-header a { color: inherit; }
section { margin-bottom: 40px; }
h2 { margin-bottom: 20px; }
.score-grid {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(260px, 1fr));
    gap: 20px;
}
.score-card {
    background: %[3]s;
    border: 1px solid %[4]s;
    border-radius: 8px;
    padding: 20px;
}
.score-card.excellent { border-color: #10b981; }
.score-card.good { border-color: #3b82f6; }
.score-card.fair { border-color: #f59e0b; }
.score-card.poor { border-color: #ef4444; }
.score-header {
    display: flex;
    justify-content: space-between;
    align-items: center;
    margin-bottom: 15px;
}
.score-header h3 { font-size: 1.2em; }
.grade {
    font-size: 1.5em;
    font-weight: bold;
    padding: 5px 15px;
    border-radius: 5px;
    background: %[1]s;
}
.score-value { font-size: 3em; font-weight: bold; margin: 20px 0; }
.max-score { font-size: 0.4em; opacity: 0.6; }
.score-bar {
    height: 8px;
    background: %[1]s;
    border-radius: 4px;
    overflow: hidden;
}
.score-fill {
    height: 100%%;
    background: linear-gradient(90deg, #3b82f6, #10b981);
}
.category-scores {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
    gap: 20px;
}
.category-card {
    background: %[1]s;
    border: 1px solid %[4]s;
    border-radius: 8px;
    padding: 15px;
}
.category-card h4 { margin-bottom: 10px; }
.category-card p { margin: 5px 0; opacity: 0.8; }
.tier-note { margin-top: 15px; opacity: 0.8; }
.partial-note { margin-bottom: 15px; color: #f59e0b; }
table {
    width: 100%%;
    border-collapse: collapse;
}
th, td {
    text-align: left;
    padding: 10px;
    border-bottom: 1px solid %[4]s;
}
th { opacity: 0.7; font-weight: 600; }
tr.error td:nth-child(2) { color: #ef4444; }
tr.warning td:nth-child(2) { color: #f59e0b; }
tr.notice td:nth-child(2) { color: #3b82f6; }
.insights { margin: 15px 0 0 20px; }
.insights li { margin: 5px 0; }
.recommendations-section h3 { margin: 20px 0 10px; }
.recommendations-section ol { margin-left: 20px; }
.recommendations-section li { margin: 8px 0; }
.footer { margin-top: 20px; opacity: 0.6; }
@media print {
    body { background: white; color: black; }
    .report-container { box-shadow: none; }
}
`, bg, text, card, border))
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>AEO Visibility Report - {{.Company}}</title>
    <style>{{.Styles}}</style>
</head>
<body>
    <div class="report-container">
        <header class="report-header">
            <h1>AEO Visibility Report</h1>
            <div class="date">{{.Date}}</div>
            {{if .Company}}<p>{{.Company}}</p>{{end}}
            {{if .URL}}<p><a href="{{.URL}}">{{.URL}}</a></p>{{end}}
        </header>
        <main>
            <section class="score-grid">
                {{range .Cards}}
                <div class="score-card {{.Class}}">
                    <div class="score-header">
                        <h3>{{.Title}}</h3>
                        <span class="grade">{{.Badge}}</span>
                    </div>
                    <div class="score-value">
                        <span class="score">{{.Value}}</span><span class="max-score">/100</span>
                    </div>
                    <div class="score-bar"><div class="score-fill" style="width: {{.Width}}%"></div></div>
                </div>
                {{end}}
            </section>

            {{if .Categories}}
            <section class="metrics-section">
                <h2>Website Health</h2>
                <div class="category-scores">
                    {{range .Categories}}
                    <div class="category-card">
                        <h4>{{.Name}}</h4>
                        <p>Score: {{.Score}}</p>
                        <p>Checks passed: {{.Passed}}/{{.Total}}</p>
                    </div>
                    {{end}}
                </div>
                {{if .LimitingReason}}<p class="tier-note">Score capped by {{.LimitingTier}}: {{.LimitingReason}} (base score {{.BaseScore}})</p>{{end}}
            </section>
            {{end}}

            {{if .Platforms}}
            <section class="mentions-section">
                <h2>AI Visibility</h2>
                {{if .Partial}}<p class="partial-note">The visibility measurement hit its time limit; platform coverage is partial.</p>{{end}}
                {{if .Assessment}}<p>{{.Assessment}}</p>{{end}}
                <table>
                    <thead>
                        <tr><th>Platform</th><th>Queries</th><th>Responses</th><th>Mentions</th><th>Errors</th><th>Quality</th></tr>
                    </thead>
                    <tbody>
                        {{range .Platforms}}
                        <tr><td>{{.Name}}</td><td>{{.Queries}}</td><td>{{.Responses}}</td><td>{{.Mentions}}</td><td>{{.Errors}}</td><td>{{.Quality}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
                {{if .Insights}}
                <ul class="insights">
                    {{range .Insights}}<li>{{.}}</li>{{end}}
                </ul>
                {{end}}
            </section>
            {{end}}

            {{if .FailedChecks}}
            <section class="issues-section">
                <h2>Failed Checks</h2>
                <table>
                    <thead>
                        <tr><th>Check</th><th>Severity</th><th>Finding</th><th>Recommendation</th></tr>
                    </thead>
                    <tbody>
                        {{range .FailedChecks}}
                        <tr class="{{.Severity}}"><td>{{.Check}}</td><td>{{.Severity}}</td><td>{{.Message}}</td><td>{{.Recommendation}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
            </section>
            {{end}}

            {{if or .Strategic .Priority}}
            <section class="recommendations-section">
                <h2>Recommendations</h2>
                {{if .Strategic}}
                <h3>Strategy</h3>
                <ol>
                    {{range .Strategic}}<li>{{.}}</li>{{end}}
                </ol>
                {{end}}
                {{if .Priority}}
                <h3>Priority Actions</h3>
                <ol>
                    {{range .Priority}}<li>{{.}}</li>{{end}}
                </ol>
                {{end}}
            </section>
            {{end}}
        </main>
        <hr>
        <p class="footer"><small>This report was generated automatically by OpenAnalytics.</small></p>
    </div>
</body>
</html>
`))
