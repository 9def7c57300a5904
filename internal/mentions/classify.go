// Package mentions measures brand visibility: it classifies AI platform
// responses for company mentions and aggregates them into a visibility
// result.
package mentions

import (
	"math"
	"regexp"
	"strings"

	"github.com/scaile/openanalytics/internal/models"
)

// Base quality per mention type.
const (
	qualityPrimaryRecommendation = 9.5
	qualityTopOption             = 7.5
	qualityListedOption          = 5.0
	qualityContextMention        = 3.5
)

// MaxCountedMentions caps how many raw occurrences count toward the
// result, so a name-stuffed response cannot inflate the totals.
const MaxCountedMentions = 3

var recommendationPhrases = []string{
	"i recommend",
	"i'd recommend",
	"i would recommend",
	"we recommend",
	"my recommendation",
	"best choice is",
	"top pick is",
}

var superlatives = []string{
	"leading",
	"best",
	"top",
	"premier",
	"number one",
	"#1",
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?\n]+`)
	listItemLine  = regexp.MustCompile(`^\s*(?:\d{1,2}[.)]|[-*•])\s+`)
)

// Classifier detects and grades company mentions in response text. It is
// stateless and deterministic: the same response always yields the same
// classification.
type Classifier struct {
	company     string
	competitors []string
}

// NewClassifier creates a classifier for the company and its competitors.
func NewClassifier(company string, competitors []string) *Classifier {
	return &Classifier{company: company, competitors: competitors}
}

// Classify grades a single response. It returns nil when the response does
// not name the company at all; absence of a mention is not a zero-quality
// mention.
func (c *Classifier) Classify(response string) *models.Mention {
	lowerResponse := strings.ToLower(response)
	lowerCompany := strings.ToLower(strings.TrimSpace(c.company))
	if lowerCompany == "" {
		return nil
	}

	raw := strings.Count(lowerResponse, lowerCompany)
	if raw == 0 {
		return nil
	}

	position := listPosition(response, lowerCompany)

	mentionType := models.MentionContextMention
	base := qualityContextMention
	switch {
	case sentenceHasPhrase(lowerResponse, lowerCompany, recommendationPhrases):
		mentionType = models.MentionPrimaryRecommendation
		base = qualityPrimaryRecommendation
	case sentenceHasPhrase(lowerResponse, lowerCompany, superlatives):
		mentionType = models.MentionTopOption
		base = qualityTopOption
	case position > 0:
		mentionType = models.MentionListedOption
		base = qualityListedOption
	}

	quality := clamp(base+positionBonus(position), 0, 10)

	capped := raw
	if capped > MaxCountedMentions {
		capped = MaxCountedMentions
	}

	return &models.Mention{
		Type:           mentionType,
		QualityScore:   quality,
		Position:       position,
		RawMentions:    raw,
		CappedMentions: capped,
	}
}

// CompetitorMentions counts competitor name occurrences in the response.
// Only competitors that appear are included.
func (c *Classifier) CompetitorMentions(response string) map[string]int {
	lowerResponse := strings.ToLower(response)

	var counts map[string]int
	for _, name := range c.competitors {
		lowerName := strings.ToLower(strings.TrimSpace(name))
		if lowerName == "" {
			continue
		}
		if n := strings.Count(lowerResponse, lowerName); n > 0 {
			if counts == nil {
				counts = make(map[string]int)
			}
			counts[name] = n
		}
	}
	return counts
}

// sentenceHasPhrase reports whether any sentence contains the company name
// together with one of the phrases.
func sentenceHasPhrase(lowerResponse, lowerCompany string, phrases []string) bool {
	for _, sentence := range sentenceSplit.Split(lowerResponse, -1) {
		if !strings.Contains(sentence, lowerCompany) {
			continue
		}
		for _, phrase := range phrases {
			if strings.Contains(sentence, phrase) {
				return true
			}
		}
	}
	return false
}

// listPosition returns the 1-based ordinal of the first enumerated list
// item naming the company, or 0 when the company is not listed.
func listPosition(response, lowerCompany string) int {
	position := 0
	for _, line := range strings.Split(response, "\n") {
		if !listItemLine.MatchString(line) {
			continue
		}
		position++
		if strings.Contains(strings.ToLower(line), lowerCompany) {
			return position
		}
	}
	return 0
}

// positionBonus rewards early list placement: the first slot is worth the
// most, nothing beyond the fifth.
func positionBonus(position int) float64 {
	switch {
	case position == 1:
		return 2.5
	case position == 2 || position == 3:
		return 1.5
	case position == 4 || position == 5:
		return 0.8
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
