package models

// CompanyInfo describes the company whose AI visibility is being measured.
// Products and services feed query generation; at least one of the two must
// be present for the generator to produce meaningful queries.
type CompanyInfo struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Website        string   `json:"website,omitempty" validate:"omitempty,url"`
	Description    string   `json:"description,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	Products       []string `json:"products,omitempty"`
	Services       []string `json:"services,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
}

// Offerings returns products and services merged, products first.
func (c CompanyInfo) Offerings() []string {
	out := make([]string, 0, len(c.Products)+len(c.Services))
	out = append(out, c.Products...)
	out = append(out, c.Services...)
	return out
}

// Competitor is a rival brand tracked during mention classification.
type Competitor struct {
	Name    string `json:"name" validate:"required"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
}

// CompanyAnalysis is the full company profile supplied by the caller.
type CompanyAnalysis struct {
	CompanyInfo CompanyInfo  `json:"companyInfo"`
	Competitors []Competitor `json:"competitors,omitempty" validate:"dive"`
}

// CompetitorNames returns the competitor names in declaration order.
func (c CompanyAnalysis) CompetitorNames() []string {
	names := make([]string, 0, len(c.Competitors))
	for _, comp := range c.Competitors {
		if comp.Name != "" {
			names = append(names, comp.Name)
		}
	}
	return names
}
