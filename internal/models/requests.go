package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Analysis modes. The mode fixes the default query count and the platform
// set; an explicit numQueries overrides the count only.
const (
	ModeFast     = "fast"
	ModeBalanced = "balanced"
	ModeFull     = "full"
)

// HealthCheckRequest asks for a health check of a single URL.
type HealthCheckRequest struct {
	URL               string `json:"url" validate:"required,url"`
	TimeoutSeconds    int    `json:"timeout_seconds,omitempty" validate:"omitempty,min=5,max=120"`
	EnableJSRendering *bool  `json:"enable_js_rendering,omitempty"`
}

// Validate checks the request against its field constraints.
func (r *HealthCheckRequest) Validate() error {
	return validate.Struct(r)
}

// MentionsCheckRequest asks for a brand visibility measurement.
type MentionsCheckRequest struct {
	CompanyName      string          `json:"companyName" validate:"required,min=2"`
	CompanyAnalysis  CompanyAnalysis `json:"companyAnalysis"`
	Language         string          `json:"language,omitempty"`
	Country          string          `json:"country,omitempty"`
	NumQueries       int             `json:"numQueries,omitempty" validate:"omitempty,min=1,max=50"`
	Mode             string          `json:"mode,omitempty" validate:"omitempty,oneof=fast balanced full"`
	GenerateInsights *bool           `json:"generateInsights,omitempty"`
}

// Validate checks field constraints plus the profile rule that the company
// must list at least one product or service.
func (r *MentionsCheckRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.CompanyAnalysis.CompanyInfo.Offerings()) == 0 {
		return fmt.Errorf("companyAnalysis.companyInfo must include at least one product or service")
	}
	return nil
}

// WantInsights reports whether the TLDR summary should be built. Defaults
// to true when the caller did not say.
func (r *MentionsCheckRequest) WantInsights() bool {
	return r.GenerateInsights == nil || *r.GenerateInsights
}

// AnalyzeRequest asks for the combined health + mentions analysis.
type AnalyzeRequest struct {
	URL              string          `json:"url" validate:"required,url"`
	CompanyName      string          `json:"companyName" validate:"required,min=2"`
	CompanyAnalysis  CompanyAnalysis `json:"companyAnalysis"`
	Language         string          `json:"language,omitempty"`
	Country          string          `json:"country,omitempty"`
	NumQueries       int             `json:"numQueries,omitempty" validate:"omitempty,min=1,max=50"`
	Mode             string          `json:"mode,omitempty" validate:"omitempty,oneof=fast balanced full"`
	GenerateInsights *bool           `json:"generateInsights,omitempty"`
	TimeoutSeconds   int             `json:"timeout_seconds,omitempty" validate:"omitempty,min=5,max=120"`
}

// Validate checks field constraints plus the company profile rule.
func (r *AnalyzeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.CompanyAnalysis.CompanyInfo.Offerings()) == 0 {
		return fmt.Errorf("companyAnalysis.companyInfo must include at least one product or service")
	}
	return nil
}

// HealthRequest derives the health half of the analysis.
func (r *AnalyzeRequest) HealthRequest() *HealthCheckRequest {
	return &HealthCheckRequest{URL: r.URL, TimeoutSeconds: r.TimeoutSeconds}
}

// MentionsRequest derives the mentions half of the analysis.
func (r *AnalyzeRequest) MentionsRequest() *MentionsCheckRequest {
	return &MentionsCheckRequest{
		CompanyName:      r.CompanyName,
		CompanyAnalysis:  r.CompanyAnalysis,
		Language:         r.Language,
		Country:          r.Country,
		NumQueries:       r.NumQueries,
		Mode:             r.Mode,
		GenerateInsights: r.GenerateInsights,
	}
}

// ReportRequest asks for a rendered report of a combined analysis.
type ReportRequest struct {
	AnalyzeRequest
	Format string `json:"format,omitempty" validate:"omitempty,oneof=html pdf"`
}

// Validate checks field constraints, including the requested format, plus
// the company profile rule.
func (r *ReportRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.CompanyAnalysis.CompanyInfo.Offerings()) == 0 {
		return fmt.Errorf("companyAnalysis.companyInfo must include at least one product or service")
	}
	return nil
}
