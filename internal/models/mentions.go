package models

import "time"

// Query dimensions. Generated query sets follow a 70/20/10 split across
// these, reconciled so the counts always sum to the requested total.
const (
	DimensionUnbranded   = "UNBRANDED"
	DimensionCompetitive = "COMPETITIVE"
	DimensionBranded     = "BRANDED"
)

// Mention types, in descending quality order. A response that names the
// company yields exactly one of these.
const (
	MentionPrimaryRecommendation = "primary_recommendation"
	MentionTopOption             = "top_option"
	MentionListedOption          = "listed_option"
	MentionContextMention        = "context_mention"
)

// Query is a single consumer-style question posed to AI platforms.
type Query struct {
	Text      string `json:"query"`
	Dimension string `json:"dimension"`
}

// Mention is the classification of a single platform response that named
// the company. Absence of a mention is modeled by absence of this value,
// not by a zero score.
type Mention struct {
	Type           string  `json:"mention_type"`
	QualityScore   float64 `json:"quality_score"`
	Position       int     `json:"position,omitempty"`
	RawMentions    int     `json:"raw_mentions"`
	CappedMentions int     `json:"capped_mentions"`
}

// QueryResult is the outcome of asking one query on one platform.
type QueryResult struct {
	Query              string         `json:"query"`
	Dimension          string         `json:"dimension"`
	Platform           string         `json:"platform"`
	CompanyMentioned   bool           `json:"company_mentioned"`
	MentionType        string         `json:"mention_type,omitempty"`
	QualityScore       float64        `json:"quality_score"`
	Position           int            `json:"position,omitempty"`
	RawMentions        int            `json:"raw_mentions"`
	CappedMentions     int            `json:"capped_mentions"`
	CompetitorMentions map[string]int `json:"competitor_mentions,omitempty"`
	SourceURLs         []string       `json:"source_urls,omitempty"`
	ResponseText       string         `json:"response_text,omitempty"`
}

// PlatformStats aggregates per-platform outcomes.
type PlatformStats struct {
	Queries      int     `json:"queries"`
	Responses    int     `json:"responses"`
	Mentions     int     `json:"mentions"`
	Errors       int     `json:"errors"`
	QualityScore float64 `json:"quality_score"`
}

// DimensionStats aggregates per-dimension outcomes.
type DimensionStats struct {
	Queries      int     `json:"queries"`
	Mentions     int     `json:"mentions"`
	QualityScore float64 `json:"quality_score"`
}

// TLDR is the executive summary attached to a mentions result. It is built
// deterministically from the aggregates.
type TLDR struct {
	VisibilityAssessment      string   `json:"visibility_assessment"`
	BrandConfusionRisk        string   `json:"brand_confusion_risk"`
	KeyInsights               []string `json:"key_insights"`
	ActionableRecommendations []string `json:"actionable_recommendations"`
}

// MentionsResult is the full outcome of a brand visibility measurement.
type MentionsResult struct {
	Company         string                     `json:"company"`
	Mode            string                     `json:"mode"`
	VisibilityScore float64                    `json:"visibility_score"`
	PresenceRate    float64                    `json:"presence_rate"`
	QualityScore    float64                    `json:"quality_score"`
	Band            string                     `json:"band"`
	BandColor       string                     `json:"band_color"`
	TotalQueries    int                        `json:"total_queries"`
	Mentions        int                        `json:"mentions"`
	PlatformStats   map[string]*PlatformStats  `json:"platform_stats"`
	DimensionStats  map[string]*DimensionStats `json:"dimension_stats"`
	Results         []QueryResult              `json:"results"`
	TLDR            *TLDR                      `json:"tldr,omitempty"`
	Partial         bool                       `json:"partial,omitempty"`
	ExecutionTime   float64                    `json:"execution_time_seconds"`
	AnalyzedAt      time.Time                  `json:"analyzed_at"`
}
