package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/scaile/openanalytics/internal/analysis"
	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/fetcher"
	"github.com/scaile/openanalytics/internal/health"
	"github.com/scaile/openanalytics/internal/llm"
	"github.com/scaile/openanalytics/internal/mentions"
	"github.com/scaile/openanalytics/internal/notifications"
	"github.com/scaile/openanalytics/internal/pdf"
	"github.com/scaile/openanalytics/internal/platforms"
	"github.com/scaile/openanalytics/internal/queries"
	"github.com/scaile/openanalytics/internal/scheduler"
	"github.com/scaile/openanalytics/internal/server"
	"github.com/scaile/openanalytics/internal/storage"
)

const geminiModel = "gemini-2.5-flash"

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting OpenAnalytics")

	// Query generation and the gemini platform both ride this client.
	if cfg.GeminiAPIKey == "" {
		logrus.Fatal("GEMINI_API_KEY is required")
	}
	gemini, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, geminiModel)
	if err != nil {
		logrus.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer gemini.Close()

	// Initialize the report archive: Azure Blob Storage when configured,
	// otherwise the local reports directory.
	archive, err := storage.New(cfg.StorageAccount, cfg.StorageContainer, cfg.ReportsDir)
	if err != nil {
		logrus.Fatalf("Failed to initialize report archive: %v", err)
	}

	// Initialize the analysis services
	healthService := health.NewService(fetcher.Options{
		Timeout:  cfg.FetchTimeout(),
		EnableJS: cfg.EnableJSRendering,
	})

	registry := platforms.NewRegistry(cfg.OpenRouterAPIKey, gemini, cfg.QueryTimeout())
	generator := queries.NewGenerator(gemini)
	mentionsService := mentions.NewService(registry, generator, mentions.Options{
		QueryTimeout:   cfg.QueryTimeout(),
		OverallTimeout: cfg.MentionsTimeout(),
		TimeoutPolicy:  cfg.MentionsTimeoutPolicy,
		MaxConcurrent:  cfg.MaxConcurrentQueries,
	})

	analyzer := analysis.NewService(healthService, mentionsService)

	// PDF reports render through the external service when configured,
	// otherwise in-process with headless Chromium.
	var converter pdf.Converter
	if cfg.PDFServiceURL != "" {
		converter = pdf.NewClient(cfg.PDFServiceURL, 2*time.Minute)
	} else {
		converter = pdf.NewRenderer(2 * time.Minute)
	}

	// Initialize notification services
	notificationService := notifications.NewService(cfg)

	// Initialize scheduler for watched targets
	schedulerService := scheduler.NewService(cfg, analyzer, archive, notificationService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server
	srv := server.NewServer(cfg, healthService, mentionsService, analyzer, converter, archive)

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     srv.Router(),
		ReadTimeout: 15 * time.Second,
		// Analyses fan out across AI platforms and can run for minutes.
		WriteTimeout: cfg.MentionsTimeout() + time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
