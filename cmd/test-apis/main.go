package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/llm"
	"github.com/scaile/openanalytics/internal/platforms"
)

const probe = "What is a website health check? Answer in one sentence."

func main() {
	fmt.Println("🔍 OpenAnalytics - AI Platform Connectivity Test")
	fmt.Println("================================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
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
	}

	registry := platforms.NewRegistry(cfg.OpenRouterAPIKey, gemini, 30*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("\n📡 Asking every platform: %q\n", probe)
	fmt.Println(strings.Repeat("-", 48))

	for _, platform := range registry.All() {
		testPlatform(ctx, platform)
	}

	fmt.Println("\n✅ Platform connectivity test completed!")
	fmt.Println("\n💡 Next steps:")
	fmt.Println("   • Configure GEMINI_API_KEY and OPENROUTER_API_KEY in .env for disabled platforms")
	fmt.Println("   • Run the full service with: go run cmd/server/main.go")
	fmt.Println("   • Trigger an analysis with: curl -X POST localhost:8080/mentions")
}

func testPlatform(ctx context.Context, platform platforms.Platform) {
	fmt.Printf("🔸 Testing %s... ", platform.Name())

	if !platform.IsEnabled() {
		fmt.Printf("⚠️  DISABLED (missing API key)\n")
		return
	}

	start := time.Now()
	resp, err := platform.Ask(ctx, probe)
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}

	fmt.Printf("✅ SUCCESS (%d chars in %v)\n", len(resp.Text), time.Since(start).Round(time.Millisecond))

	// Show a sample of the answer
	text := strings.TrimSpace(resp.Text)
	if len(text) > 80 {
		text = text[:80] + "..."
	}
	if text != "" {
		fmt.Printf("   📝 Sample: \"%s\"\n", text)
	}
}
