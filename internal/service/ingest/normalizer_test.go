// internal/service/ingest/normalizer_test.go

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandpulse/internal/domain/sentiment"
)

// fixedClassifier returns a canned score for every input
type fixedClassifier struct {
	score    float64
	category sentiment.Category
	lastText string
}

func (f *fixedClassifier) Classify(text string) (float64, sentiment.Category) {
	f.lastText = text
	return f.score, f.category
}

func TestNormalizeDropsUnusableRecords(t *testing.T) {
	n := NewNormalizer(&fixedClassifier{})

	_, ok := n.Normalize(sentiment.RawRecord{Title: "", Link: "https://example.com/a"})
	assert.False(t, ok)

	_, ok = n.Normalize(sentiment.RawRecord{Title: "Headline", Link: ""})
	assert.False(t, ok)

	_, ok = n.Normalize(sentiment.RawRecord{Title: "  ", Link: "  "})
	assert.False(t, ok)
}

func TestNormalizeStripsMarkupAndEntities(t *testing.T) {
	n := NewNormalizer(&fixedClassifier{score: 0.5, category: sentiment.CategoryPositive})

	article, ok := n.Normalize(sentiment.RawRecord{
		Title:       "Headline",
		Link:        "https://example.com/a",
		Description: "<p>Stock <b>jumps</b> &amp; rallies</p>",
	})
	require.True(t, ok)
	assert.Equal(t, "Stock jumps & rallies", article.Description)
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := NewNormalizer(&fixedClassifier{})

	article, ok := n.Normalize(sentiment.RawRecord{
		Title:       "Headline",
		Link:        "https://example.com/a",
		Description: "  too\n\nmany\t\t spaces  here ",
	})
	require.True(t, ok)
	assert.Equal(t, "too many spaces here", article.Description)
}

func TestNormalizeTruncatesLongDescriptions(t *testing.T) {
	n := NewNormalizer(&fixedClassifier{})

	long := strings.Repeat("x", 300)
	article, ok := n.Normalize(sentiment.RawRecord{
		Title:       "Headline",
		Link:        "https://example.com/a",
		Description: long,
	})
	require.True(t, ok)
	assert.Len(t, article.Description, 250)
	assert.True(t, strings.HasSuffix(article.Description, "..."))
}

func TestNormalizeKeepsShortDescriptionsIntact(t *testing.T) {
	n := NewNormalizer(&fixedClassifier{})

	exact := strings.Repeat("y", 250)
	article, ok := n.Normalize(sentiment.RawRecord{
		Title:       "Headline",
		Link:        "https://example.com/a",
		Description: exact,
	})
	require.True(t, ok)
	assert.Equal(t, exact, article.Description)
}

func TestNormalizeDefaultsMissingSource(t *testing.T) {
	n := NewNormalizer(&fixedClassifier{})

	article, ok := n.Normalize(sentiment.RawRecord{
		Title: "Headline",
		Link:  "https://example.com/a",
	})
	require.True(t, ok)
	assert.Equal(t, "N/A", article.Source)
}

func TestNormalizeClassifiesTitleAndDescriptionTogether(t *testing.T) {
	classifier := &fixedClassifier{score: -0.4, category: sentiment.CategoryNegative}
	n := NewNormalizer(classifier)

	article, ok := n.Normalize(sentiment.RawRecord{
		Title:       "Recall announced",
		Link:        "https://example.com/a",
		Description: "Thousands of units affected",
	})
	require.True(t, ok)
	assert.Equal(t, "Recall announced Thousands of units affected", classifier.lastText)
	assert.Equal(t, -0.4, article.Score)
	assert.Equal(t, sentiment.CategoryNegative, article.Category)
}

func TestNormalizeBatchDropsOnlyUnusable(t *testing.T) {
	n := NewNormalizer(&fixedClassifier{})

	articles := n.NormalizeBatch([]sentiment.RawRecord{
		{Title: "First", Link: "https://example.com/1"},
		{Title: "", Link: "https://example.com/2"},
		{Title: "Third", Link: "https://example.com/3"},
	})

	require.Len(t, articles, 2)
	assert.Equal(t, "First", articles[0].Title)
	assert.Equal(t, "Third", articles[1].Title)
}
