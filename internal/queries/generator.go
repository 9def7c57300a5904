package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/scaile/openanalytics/internal/llm"
	"github.com/scaile/openanalytics/internal/models"
)

var dimensionOrder = []string{
	models.DimensionUnbranded,
	models.DimensionCompetitive,
	models.DimensionBranded,
}

// Generator produces the query set for a mentions run. With a model client
// it asks Gemini for hyper-niche queries and reconciles the output against
// the dimension budget; without one it falls back to profile templates.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator. A nil client means template-only
// generation.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate returns exactly n queries honoring the 70/20/10 dimension
// split. Generation never fails: model errors degrade to templates.
func (g *Generator) Generate(ctx context.Context, profile models.CompanyAnalysis, language, country string, n int) []models.Query {
	alloc := SplitQueries(n)

	var raw []models.Query
	if g.client != nil {
		generated, err := g.generateWithModel(ctx, profile, language, country, alloc)
		if err != nil {
			logrus.Warnf("Query generation via model failed, using templates: %v", err)
		} else {
			raw = generated
		}
	}

	return g.reconcile(raw, alloc, profile, country)
}

// reconcile fits raw model output to the allocation: per dimension it keeps
// up to the budget, drops duplicates and unknown dimensions, and tops up
// from templates so the counts always sum to n.
func (g *Generator) reconcile(raw []models.Query, alloc Allocation, profile models.CompanyAnalysis, country string) []models.Query {
	seen := make(map[string]bool)
	buckets := make(map[string][]models.Query)

	for _, q := range raw {
		dim := strings.ToUpper(strings.TrimSpace(q.Dimension))
		text := strings.TrimSpace(q.Text)
		if text == "" || !isKnownDimension(dim) {
			continue
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		buckets[dim] = append(buckets[dim], models.Query{Text: text, Dimension: dim})
	}

	out := make([]models.Query, 0, alloc.Total())
	for _, dim := range dimensionOrder {
		budget := alloc.ForDimension(dim)
		kept := buckets[dim]
		if len(kept) > budget {
			kept = kept[:budget]
		}
		out = append(out, kept...)
		if missing := budget - len(kept); missing > 0 {
			out = append(out, fallbackQueries(dim, profile, country, missing, seen)...)
		}
	}

	return out
}

func (g *Generator) generateWithModel(ctx context.Context, profile models.CompanyAnalysis, language, country string, alloc Allocation) ([]models.Query, error) {
	prompt := buildPrompt(profile, language, country, alloc)

	text, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("query generation request failed: %w", err)
	}

	queries, err := parseQueries(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated queries: %w", err)
	}

	logrus.Debugf("Model generated %d candidate queries", len(queries))
	return queries, nil
}

func parseQueries(text string) ([]models.Query, error) {
	text = llm.CleanJSONBlock(text)

	var queries []models.Query
	if err := json.Unmarshal([]byte(text), &queries); err == nil {
		return queries, nil
	}

	var wrapped struct {
		Queries []models.Query `json:"queries"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Queries, nil
}

func buildPrompt(profile models.CompanyAnalysis, language, country string, alloc Allocation) string {
	info := profile.CompanyInfo

	var b strings.Builder
	b.WriteString("Generate realistic questions that consumers would ask an AI assistant ")
	b.WriteString("when researching products and services in this market.\n\n")

	fmt.Fprintf(&b, "Company: %s\n", info.Name)
	if info.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", info.Industry)
	}
	if len(info.Products) > 0 {
		fmt.Fprintf(&b, "Products: %s\n", strings.Join(info.Products, ", "))
	}
	if len(info.Services) > 0 {
		fmt.Fprintf(&b, "Services: %s\n", strings.Join(info.Services, ", "))
	}
	if info.TargetAudience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", info.TargetAudience)
	}
	if competitors := profile.CompetitorNames(); len(competitors) > 0 {
		fmt.Fprintf(&b, "Competitors: %s\n", strings.Join(competitors, ", "))
	}
	if country != "" {
		fmt.Fprintf(&b, "Market: %s\n", country)
	}
	if language != "" {
		fmt.Fprintf(&b, "Language: %s\n", language)
	}

	b.WriteString("\nGenerate exactly:\n")
	fmt.Fprintf(&b, "- %d UNBRANDED queries: generic product/service questions that never name any company\n", alloc.Unbranded)
	fmt.Fprintf(&b, "- %d COMPETITIVE queries: comparison and alternative-seeking questions naming competitors\n", alloc.Competitive)
	fmt.Fprintf(&b, "- %d BRANDED queries: questions naming %s directly\n", alloc.Branded, info.Name)

	b.WriteString("\nBe hyper-specific to the company's niche; avoid generic marketing phrasing.\n")
	b.WriteString(`Return a JSON array: [{"query": "...", "dimension": "UNBRANDED|COMPETITIVE|BRANDED"}]`)

	return b.String()
}

func isKnownDimension(dim string) bool {
	for _, d := range dimensionOrder {
		if d == dim {
			return true
		}
	}
	return false
}
