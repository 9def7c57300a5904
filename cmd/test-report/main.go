// Renders a sample analysis into report files so template changes can be
// previewed without burning API credits.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/pdf"
	"github.com/scaile/openanalytics/internal/reports"
	"github.com/scaile/openanalytics/internal/storage"
)

func main() {
	fmt.Println("🤖 OpenAnalytics - Test Report Generator")
	fmt.Println("========================================")

	result := sampleResult()

	archive, err := storage.NewLocalStorage("test_output")
	if err != nil {
		fmt.Printf("❌ Could not create output directory: %v\n", err)
		os.Exit(1)
	}

	printSummary(result)

	// Render both themes so dark and light can be compared side by side.
	themes := map[string]string{
		reports.ThemeDark:  "dark",
		reports.ThemeLight: "light",
	}
	var darkHTML string
	for theme, label := range themes {
		html, err := reports.RenderHTML(result, reports.Options{Theme: theme})
		if err != nil {
			fmt.Printf("❌ Report rendering failed: %v\n", err)
			os.Exit(1)
		}
		if theme == reports.ThemeDark {
			darkHTML = html
		}

		name := storage.BlobName(result.Company, label+".html", result.GeneratedAt, result.ID)
		if err := archive.Store(name, []byte(html)); err != nil {
			fmt.Printf("❌ Could not save report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("💾 %s report saved to: test_output/%s\n", label, name)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Printf("❌ Could not marshal result: %v\n", err)
		os.Exit(1)
	}
	jsonName := storage.BlobName(result.Company, "json", result.GeneratedAt, result.ID)
	if err := archive.Store(jsonName, data); err != nil {
		fmt.Printf("❌ Could not save result: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("💾 Result JSON saved to: test_output/%s\n", jsonName)

	// Convert to PDF through the rendering service when one is configured.
	if url := os.Getenv("PDF_SERVICE_URL"); url != "" {
		fmt.Printf("\n📄 Converting via PDF service at %s...\n", url)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		client := pdf.NewClient(url, 2*time.Minute)
		rendered, err := client.Convert(ctx, darkHTML, pdf.DefaultOptions())
		if err != nil {
			fmt.Printf("⚠️  PDF conversion failed: %v\n", err)
		} else {
			pdfName := storage.BlobName(result.Company, "pdf", result.GeneratedAt, result.ID)
			if err := archive.Store(pdfName, rendered.PDF); err != nil {
				fmt.Printf("❌ Could not save PDF: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("💾 PDF saved to: test_output/%s (%d bytes in %d ms)\n",
				pdfName, len(rendered.PDF), rendered.RenderTimeMS)
		}
	}

	fmt.Println("\n✅ Test report generation completed!")
	fmt.Println("\n💡 Next steps:")
	fmt.Println("   • Open the HTML files in test_output/ in a browser")
	fmt.Println("   • Start the PDF service and set PDF_SERVICE_URL for PDF output")
	fmt.Println("   • Run the full service with: go run cmd/server/main.go")
}

func printSummary(result *models.MasterResult) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("📊 SAMPLE COMBINED ANALYSIS")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("🌐 Website: %s\n", result.URL)
	fmt.Printf("🏢 Company: %s\n", result.Company)
	fmt.Printf("📈 Combined Score: %.1f (%s, %s)\n", result.CombinedScore, result.CombinedGrade, result.CombinedBand)
	fmt.Printf("   • Website health: %.1f (%s)\n", result.Health.Score, result.Health.Grade)
	fmt.Printf("   • AI visibility:  %.1f (%s)\n", result.Mentions.VisibilityScore, result.Mentions.Band)

	fmt.Println("\n📍 Platforms:")
	for name, stats := range result.Mentions.PlatformStats {
		fmt.Printf("   • %-12s %d mentions in %d responses\n", name+":", stats.Mentions, stats.Responses)
	}

	fmt.Println("\n📝 Strategic Recommendations:")
	for i, rec := range result.StrategicRecommendations {
		fmt.Printf("   %d. %s\n", i+1, rec)
	}
	fmt.Println(strings.Repeat("=", 70))
}

// sampleResult builds a realistic combined analysis covering every report
// section: tier capping, failed checks, platform stats and the TLDR.
func sampleResult() *models.MasterResult {
	health := &models.HealthResult{
		URL:       "https://acme-analytics.example",
		Score:     62.0,
		Grade:     "C",
		Band:      "Moderate",
		BandColor: "#eab308",
		Categories: map[string]models.CategoryRollup{
			models.CategoryTechnical:  {Passed: 13, Total: 16, Score: 81.3},
			models.CategoryStructured: {Passed: 3, Total: 6, Score: 50.0},
			models.CategoryCrawler:    {Passed: 4, Total: 4, Score: 100.0},
			models.CategoryAuthority:  {Passed: 1, Total: 3, Score: 33.3},
		},
		Checks: []models.CheckResult{
			{Check: "https", Category: models.CategoryTechnical, Passed: true, Severity: models.SeverityPass,
				Message: "Served over HTTPS", ScoreImpact: 8},
			{Check: "meta_description", Category: models.CategoryTechnical, Passed: false, Severity: models.SeverityWarning,
				Message: "Missing meta description", Recommendation: "Add a meta description summarizing the page in 120-160 characters", ScoreImpact: 6},
			{Check: "org_schema_completeness", Category: models.CategoryStructured, Passed: false, Severity: models.SeverityWarning,
				Message: "Organization schema 50% complete (4/8 fields)", Recommendation: "Fill out the Organization schema: logo, description, sameAs, contactPoint", ScoreImpact: 7},
			{Check: "faq_schema", Category: models.CategoryStructured, Passed: false, Severity: models.SeverityNotice,
				Message: "No FAQ or HowTo schema found", Recommendation: "Add FAQPage schema; question-answer pairs are prime AI citation material", ScoreImpact: 4},
			{Check: "sameas_links", Category: models.CategoryAuthority, Passed: false, Severity: models.SeverityWarning,
				Message: "No sameAs links found", Recommendation: "Add sameAs links to official profiles; they anchor the knowledge graph entry", ScoreImpact: 6},
		},
		TierDetails: models.TierDetails{
			Tier0:          models.TierCap{Passed: true, Cap: 100, Reason: "AI can access site"},
			Tier1:          models.TierCap{Passed: true, Cap: 100, Reason: "Has essential elements"},
			Tier2:          models.TierCap{Cap: 75, Reason: "Issues: incomplete Organization schema, no sameAs links"},
			BaseScore:      62.0,
			LimitingTier:   "base",
			LimitingReason: "Check performance",
		},
		Fetch: models.FetchInfo{
			HTTPStatus:     200,
			LatencyMS:      412,
			RenderMode:     "static",
			RobotsTxtFound: true,
			SitemapFound:   true,
		},
		ExecutionTime: 3.81,
		AnalyzedAt:    time.Now().UTC(),
	}

	mentions := &models.MentionsResult{
		Company:         "Acme Analytics",
		Mode:            models.ModeBalanced,
		VisibilityScore: 58.3,
		PresenceRate:    44.0,
		QualityScore:    6.1,
		Band:            "Moderate",
		BandColor:       "#eab308",
		TotalQueries:    25,
		Mentions:        11,
		PlatformStats: map[string]*models.PlatformStats{
			"gemini":     {Queries: 25, Responses: 25, Mentions: 4, QualityScore: 6.8},
			"chatgpt":    {Queries: 25, Responses: 24, Mentions: 3, Errors: 1, QualityScore: 5.9},
			"perplexity": {Queries: 25, Responses: 25, Mentions: 3, QualityScore: 6.2},
			"claude":     {Queries: 25, Responses: 23, Mentions: 1, Errors: 2, QualityScore: 4.4},
		},
		DimensionStats: map[string]*models.DimensionStats{
			models.DimensionUnbranded:   {Queries: 17, Mentions: 4, QualityScore: 5.2},
			models.DimensionCompetitive: {Queries: 5, Mentions: 4, QualityScore: 6.6},
			models.DimensionBranded:     {Queries: 3, Mentions: 3, QualityScore: 8.1},
		},
		TLDR: &models.TLDR{
			VisibilityAssessment: "Acme Analytics has moderate AI visibility: present in under half of relevant answers.",
			BrandConfusionRisk:   "low",
			KeyInsights: []string{
				"Strongest platform: gemini (4 mentions)",
				"Weakest platform: claude (1 mention)",
				"Branded queries surface the company reliably; unbranded discovery lags",
			},
			ActionableRecommendations: []string{
				"Publish comparison content targeting unbranded analytics queries",
				"Strengthen presence in sources Perplexity cites",
			},
		},
		ExecutionTime: 148.6,
		AnalyzedAt:    time.Now().UTC(),
	}

	return &models.MasterResult{
		ID:            "sample",
		URL:           health.URL,
		Company:       mentions.Company,
		Health:        health,
		Mentions:      mentions,
		CombinedScore: 60.5,
		CombinedGrade: "C",
		CombinedBand:  "Moderate",
		BandColor:     "#eab308",
		StrategicRecommendations: []string{
			"Fix website health first: technical and schema gaps suppress every AI visibility gain",
			"Publish comparison content targeting unbranded analytics queries",
		},
		PriorityActions: []string{
			"Fill out the Organization schema: logo, description, sameAs, contactPoint",
			"Add sameAs links to official profiles; they anchor the knowledge graph entry",
			"Add a meta description summarizing the page in 120-160 characters",
		},
		ExecutionTime: 152.4,
		GeneratedAt:   time.Now().UTC(),
	}
}
