// Runs one combined analysis end to end against a live website. Works
// without API keys: queries fall back to templates and platforms without
// credentials are skipped, so the mentions half reports zero visibility
// while the health half runs for real.
//
//	go run cmd/test-integration/main.go https://example.com "Example Inc"
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/scaile/openanalytics/internal/analysis"
	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/fetcher"
	"github.com/scaile/openanalytics/internal/health"
	"github.com/scaile/openanalytics/internal/llm"
	"github.com/scaile/openanalytics/internal/mentions"
	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/platforms"
	"github.com/scaile/openanalytics/internal/queries"
)

func main() {
	fmt.Println("🧪 OpenAnalytics - Local Integration Test")
	fmt.Println("=========================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	url := "https://example.com"
	company := "Example Inc"
	if len(os.Args) > 1 {
		url = os.Args[1]
	}
	if len(os.Args) > 2 {
		company = os.Args[2]
	}

	// A typed nil *GeminiClient would look non-nil through the interface,
	// so the variable is only assigned when a key is present.
	var gemini llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, "gemini-2.5-flash")
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer client.Close()
		gemini = client
	} else {
		fmt.Println("ℹ️  GEMINI_API_KEY not set: queries come from templates, Gemini is skipped")
	}

	// Build the real analysis stack
	healthService := health.NewService(fetcher.Options{Timeout: 30 * time.Second})
	registry := platforms.NewRegistry(cfg.OpenRouterAPIKey, gemini, 60*time.Second)
	generator := queries.NewGenerator(gemini)
	mentionsService := mentions.NewService(registry, generator, mentions.Options{})
	analyzer := analysis.NewService(healthService, mentionsService)

	enabled := registry.ForMode(models.ModeFast)
	if len(enabled) == 0 {
		fmt.Println("ℹ️  No AI platforms configured: the visibility score will be zero")
	} else {
		names := make([]string, 0, len(enabled))
		for _, p := range enabled {
			names = append(names, p.Name())
		}
		fmt.Printf("📡 Enabled platforms: %s\n", strings.Join(names, ", "))
	}

	req := &models.AnalyzeRequest{
		URL:         url,
		CompanyName: company,
		Mode:        models.ModeFast,
		CompanyAnalysis: models.CompanyAnalysis{
			CompanyInfo: models.CompanyInfo{
				Name:     company,
				Website:  url,
				Services: []string{"services"},
			},
		},
	}

	fmt.Printf("\n🔍 Running full analysis for %s (%s)...\n", company, url)
	fmt.Println("⏱️  This hits the live site and real APIs and may take 30-60 seconds...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := analyzer.Run(ctx, req)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printResult(result)

	fmt.Println("\n✅ Local integration test completed!")
	fmt.Println("\n🚀 Ready for deployment:")
	fmt.Println("   • Add GEMINI_API_KEY and OPENROUTER_API_KEY to .env for real visibility scores")
	fmt.Println("   • Start the HTTP service: go run cmd/server/main.go")
	fmt.Println("   • Run the PDF renderer alongside: go run cmd/pdfrender/main.go")
}

func printResult(result *models.MasterResult) {
	fmt.Println("\n🎉 ANALYSIS COMPLETED!")
	fmt.Printf("📊 Combined Score: %.1f (%s, %s)\n", result.CombinedScore, result.CombinedGrade, result.CombinedBand)
	fmt.Printf("   • Website health: %.1f (%s)\n", result.Health.Score, result.Health.Grade)
	fmt.Printf("   • AI visibility:  %.1f (%d/%d queries mentioned the company)\n",
		result.Mentions.VisibilityScore, result.Mentions.Mentions, result.Mentions.TotalQueries)

	failed := result.Health.FailedChecks()
	if len(failed) > 0 {
		fmt.Println("📝 Top Health Findings:")
		for i, check := range failed {
			if i >= 3 {
				break
			}
			fmt.Printf("   %d. [%s] %s\n", i+1, check.Category, check.Message)
		}
	}

	if len(result.PriorityActions) > 0 {
		fmt.Println("💡 Priority Actions:")
		for i, action := range result.PriorityActions {
			if i >= 3 {
				break
			}
			fmt.Printf("   %d. %s\n", i+1, action)
		}
	}

	fmt.Printf("⏱️  Total execution time: %.1fs\n", result.ExecutionTime)
}
