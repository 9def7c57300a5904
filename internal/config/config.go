package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// AI platform credentials
	GeminiAPIKey     string
	OpenRouterAPIKey string

	// Website fetching
	FetchTimeoutSeconds int
	EnableJSRendering   bool

	// Mentions measurement
	QueryTimeoutSeconds    int
	MentionsTimeoutSeconds int
	MentionsTimeoutPolicy  string // "include-partial" or "fail"
	MaxConcurrentQueries   int

	// Report archive
	StorageAccount   string
	StorageContainer string
	ReportsDir       string

	// Report rendering
	PDFServiceURL string

	// Notification configuration
	ReportWebhookURL  string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Scheduled watch runs
	WatchTargets  string
	WatchSchedule string // "daily" or "weekly"
	TimeZone      string
}

// WatchTarget is one website re-analyzed on the watch schedule.
type WatchTarget struct {
	URL     string
	Company string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),

		FetchTimeoutSeconds: getIntEnv("FETCH_TIMEOUT_SECONDS", 30),
		EnableJSRendering:   getBoolEnv("ENABLE_JS_RENDERING", true),

		QueryTimeoutSeconds:    getIntEnv("QUERY_TIMEOUT_SECONDS", 60),
		MentionsTimeoutSeconds: getIntEnv("MENTIONS_TIMEOUT_SECONDS", 600),
		MentionsTimeoutPolicy:  getEnv("MENTIONS_TIMEOUT_POLICY", "include-partial"),
		MaxConcurrentQueries:   getIntEnv("MAX_CONCURRENT_QUERIES", 8),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "reports"),
		ReportsDir:       getEnv("REPORTS_DIR", "reports"),

		PDFServiceURL: getEnv("PDF_SERVICE_URL", ""),

		ReportWebhookURL:  getEnv("REPORT_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		WatchTargets:  getEnv("WATCH_TARGETS", ""),
		WatchSchedule: getEnv("WATCH_SCHEDULE", "weekly"),
		TimeZone:      getEnv("TIMEZONE", "UTC"),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.WatchSchedule != "daily" && c.WatchSchedule != "weekly" {
		return fmt.Errorf("WATCH_SCHEDULE must be 'daily' or 'weekly'")
	}

	if c.MentionsTimeoutPolicy != "include-partial" && c.MentionsTimeoutPolicy != "fail" {
		return fmt.Errorf("MENTIONS_TIMEOUT_POLICY must be 'include-partial' or 'fail'")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	if _, err := ParseWatchTargets(c.WatchTargets); err != nil {
		return err
	}

	return nil
}

// FetchTimeout returns the page fetch budget.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// QueryTimeout returns the per-platform-call budget.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// MentionsTimeout returns the whole-measurement budget.
func (c *Config) MentionsTimeout() time.Duration {
	return time.Duration(c.MentionsTimeoutSeconds) * time.Second
}

// Targets returns the parsed watch list. Load already validated it.
func (c *Config) Targets() []WatchTarget {
	targets, _ := ParseWatchTargets(c.WatchTargets)
	return targets
}

// ParseWatchTargets parses the WATCH_TARGETS format: comma-separated
// "url=Company Name" pairs.
func ParseWatchTargets(raw string) ([]WatchTarget, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var targets []WatchTarget
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		url, company, found := strings.Cut(entry, "=")
		url, company = strings.TrimSpace(url), strings.TrimSpace(company)
		if !found || url == "" || company == "" {
			return nil, fmt.Errorf("invalid watch target %q, expected url=Company", entry)
		}
		targets = append(targets, WatchTarget{URL: url, Company: company})
	}
	return targets, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
