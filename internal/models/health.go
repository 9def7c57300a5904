package models

import "time"

// Check categories. Category totals are fixed: 16 technical, 6 structured
// data, 4 AI crawler access, 3 authority.
const (
	CategoryTechnical  = "technical_seo"
	CategoryStructured = "structured_data"
	CategoryCrawler    = "ai_crawler_access"
	CategoryAuthority  = "authority"
)

// Check severities. A passed check always carries SeverityPass; a failed
// check carries the severity assigned to it by the battery.
const (
	SeverityPass    = "pass"
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityNotice  = "notice"
)

// CheckResult is the outcome of a single health check. Failure is expressed
// here, never as a Go error.
type CheckResult struct {
	Check          string  `json:"check"`
	Category       string  `json:"category"`
	Passed         bool    `json:"passed"`
	Severity       string  `json:"severity"`
	Message        string  `json:"message"`
	Recommendation string  `json:"recommendation,omitempty"`
	ScoreImpact    float64 `json:"score_impact"`
}

// TierCap is one gating tier's verdict.
type TierCap struct {
	Passed bool    `json:"passed"`
	Cap    float64 `json:"cap"`
	Reason string  `json:"reason"`
}

// TierDetails explains how the final score was derived from the base score
// and the tier caps.
type TierDetails struct {
	Tier0          TierCap `json:"tier0"`
	Tier1          TierCap `json:"tier1"`
	Tier2          TierCap `json:"tier2"`
	BaseScore      float64 `json:"base_score"`
	LimitingTier   string  `json:"limiting_tier"`
	LimitingReason string  `json:"limiting_reason"`
}

// CategoryRollup summarizes one check category.
type CategoryRollup struct {
	Passed int     `json:"passed"`
	Total  int     `json:"total"`
	Score  float64 `json:"score"`
}

// FetchInfo records how the page snapshot was obtained.
type FetchInfo struct {
	HTTPStatus     int    `json:"http_status"`
	LatencyMS      int64  `json:"latency_ms"`
	RenderMode     string `json:"render_mode"` // "static" or "browser"
	RobotsTxtFound bool   `json:"robots_txt_found"`
	SitemapFound   bool   `json:"sitemap_found"`
}

// HealthResult is the full outcome of a website health check.
type HealthResult struct {
	URL           string                    `json:"url"`
	Score         float64                   `json:"score"`
	Grade         string                    `json:"grade"`
	Band          string                    `json:"band"`
	BandColor     string                    `json:"band_color"`
	Categories    map[string]CategoryRollup `json:"categories"`
	Checks        []CheckResult             `json:"checks"`
	TierDetails   TierDetails               `json:"tier_details"`
	Fetch         FetchInfo                 `json:"fetch"`
	ExecutionTime float64                   `json:"execution_time_seconds"`
	AnalyzedAt    time.Time                 `json:"analyzed_at"`
}

// FailedChecks returns the checks that did not pass, in battery order.
func (h *HealthResult) FailedChecks() []CheckResult {
	var failed []CheckResult
	for _, c := range h.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}
