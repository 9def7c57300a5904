package mentions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaile/openanalytics/internal/models"
)

func newTestClassifier() *Classifier {
	return NewClassifier("Acme Coffee Tech", []string{"BrewCo", "Barista Pro"})
}

func TestClassifyPrimaryRecommendation(t *testing.T) {
	c := newTestClassifier()

	m := c.Classify("For a busy cafe I recommend Acme Coffee Tech because of its service network.")

	require.NotNil(t, m)
	assert.Equal(t, models.MentionPrimaryRecommendation, m.Type)
	assert.Equal(t, 9.5, m.QualityScore)
	assert.Equal(t, 0, m.Position)
	assert.Equal(t, 1, m.RawMentions)
	assert.Equal(t, 1, m.CappedMentions)
}

func TestClassifyTopOption(t *testing.T) {
	c := newTestClassifier()

	m := c.Classify("Acme Coffee Tech is the leading espresso machine maker in Europe. Others exist too.")

	require.NotNil(t, m)
	assert.Equal(t, models.MentionTopOption, m.Type)
	assert.Equal(t, 7.5, m.QualityScore)
}

func TestClassifyListedOption(t *testing.T) {
	c := newTestClassifier()

	m := c.Classify(`Here are solid options:
1. BrewCo - established player
2. Acme Coffee Tech - innovative machines
3. Barista Pro - budget friendly`)

	require.NotNil(t, m)
	assert.Equal(t, models.MentionListedOption, m.Type)
	assert.Equal(t, 2, m.Position)
	assert.Equal(t, 6.5, m.QualityScore, "listed base 5.0 plus 1.5 position bonus")
}

func TestClassifyContextMention(t *testing.T) {
	c := newTestClassifier()

	m := c.Classify("Several vendors operate here; Acme Coffee Tech also has a presence in the market.")

	require.NotNil(t, m)
	assert.Equal(t, models.MentionContextMention, m.Type)
	assert.Equal(t, 3.5, m.QualityScore)
}

func TestClassifyNoMentionReturnsNil(t *testing.T) {
	c := newTestClassifier()
	assert.Nil(t, c.Classify("BrewCo and Barista Pro dominate this space."))
	assert.Nil(t, c.Classify(""))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := newTestClassifier()

	m := c.Classify("ACME COFFEE TECH shows up in most roundups.")

	require.NotNil(t, m)
	assert.Equal(t, models.MentionContextMention, m.Type)
}

func TestClassifyQualityClampedAtTen(t *testing.T) {
	c := newTestClassifier()

	// Primary recommendation base 9.5 plus first-position bonus 2.5 would
	// be 12 unclamped.
	m := c.Classify(`My recommendation is Acme Coffee Tech.
1. Acme Coffee Tech
2. BrewCo`)

	require.NotNil(t, m)
	assert.Equal(t, models.MentionPrimaryRecommendation, m.Type)
	assert.Equal(t, 1, m.Position)
	assert.Equal(t, 10.0, m.QualityScore)
}

func TestClassifyPriorityOrder(t *testing.T) {
	c := newTestClassifier()

	// Recommendation language outranks list membership.
	m := c.Classify(`I recommend Acme Coffee Tech for most cafes.
1. BrewCo
2. Acme Coffee Tech`)

	require.NotNil(t, m)
	assert.Equal(t, models.MentionPrimaryRecommendation, m.Type)
}

func TestClassifyPositionBonusLadder(t *testing.T) {
	c := newTestClassifier()

	buildList := func(position int) string {
		lines := ""
		for i := 1; i <= 7; i++ {
			name := "Vendor"
			if i == position {
				name = "Acme Coffee Tech"
			}
			lines += itoa(i) + ". " + name + "\n"
		}
		return lines
	}

	expected := map[int]float64{1: 7.5, 2: 6.5, 3: 6.5, 4: 5.8, 5: 5.8, 6: 5.0, 7: 5.0}
	for position, want := range expected {
		m := c.Classify(buildList(position))
		require.NotNil(t, m, "position %d", position)
		assert.Equal(t, models.MentionListedOption, m.Type)
		assert.Equal(t, position, m.Position)
		assert.InDelta(t, want, m.QualityScore, 0.001, "position %d", position)
	}
}

func TestClassifyMentionCapping(t *testing.T) {
	c := newTestClassifier()

	m := c.Classify(`Acme Coffee Tech builds machines. Acme Coffee Tech repairs them.
Acme Coffee Tech also trains staff. Acme Coffee Tech runs workshops.
Acme Coffee Tech sponsors events.`)

	require.NotNil(t, m)
	assert.Equal(t, 5, m.RawMentions)
	assert.Equal(t, MaxCountedMentions, m.CappedMentions)
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier()
	response := `Top picks:
- BrewCo
- Acme Coffee Tech
I would recommend Acme Coffee Tech overall.`

	first := c.Classify(response)
	second := c.Classify(response)

	require.NotNil(t, first)
	assert.Equal(t, first, second)
}

func TestCompetitorMentions(t *testing.T) {
	c := newTestClassifier()

	counts := c.CompetitorMentions("BrewCo is popular. Some prefer brewco machines. Barista Pro is cheaper.")

	assert.Equal(t, map[string]int{"BrewCo": 2, "Barista Pro": 1}, counts)
}

func TestCompetitorMentionsAbsent(t *testing.T) {
	c := newTestClassifier()
	assert.Nil(t, c.CompetitorMentions("Only Acme Coffee Tech appears here."))
}

func itoa(n int) string {
	return string(rune('0' + n))
}
