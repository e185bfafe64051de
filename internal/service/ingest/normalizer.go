// internal/service/ingest/normalizer.go

package ingest

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"brandpulse/internal/domain/sentiment"
)

const (
	maxDescriptionLen = 250
	truncatedLen      = 247
	continuationMark  = "..."
	unknownSource     = "N/A"
)

// Normalizer turns raw fetched records into classified articles.
// It is a pure transform over its input plus one classifier call per
// record; it never mutates the records it is given.
type Normalizer struct {
	classifier sentiment.Classifier
	stripper   *bluemonday.Policy
}

// NewNormalizer creates a normalizer backed by the given classifier
func NewNormalizer(classifier sentiment.Classifier) *Normalizer {
	return &Normalizer{
		classifier: classifier,
		stripper:   bluemonday.StrictPolicy(),
	}
}

// Normalize builds an Article from one raw record. Records missing a
// title or link are unusable and return false.
func (n *Normalizer) Normalize(record sentiment.RawRecord) (sentiment.Article, bool) {
	title := strings.TrimSpace(record.Title)
	link := strings.TrimSpace(record.Link)
	if title == "" || link == "" {
		return sentiment.Article{}, false
	}

	description := n.cleanDescription(record.Description)

	source := strings.TrimSpace(record.Source)
	if source == "" {
		source = unknownSource
	}

	combined := title + " " + description
	score, category := n.classifier.Classify(strings.TrimSpace(combined))

	return sentiment.Article{
		Title:       title,
		Description: description,
		Link:        link,
		Source:      source,
		PublishedAt: record.PublishedAt,
		Score:       score,
		Category:    category,
	}, true
}

// NormalizeBatch normalizes a batch, silently dropping unusable records
func (n *Normalizer) NormalizeBatch(records []sentiment.RawRecord) []sentiment.Article {
	articles := make([]sentiment.Article, 0, len(records))
	for _, record := range records {
		if article, ok := n.Normalize(record); ok {
			articles = append(articles, article)
		}
	}
	return articles
}

// cleanDescription strips markup, collapses whitespace runs, and caps
// the text at 250 characters with a continuation marker.
func (n *Normalizer) cleanDescription(raw string) string {
	text := html.UnescapeString(n.stripper.Sanitize(raw))
	text = strings.Join(strings.Fields(text), " ")

	if runes := []rune(text); len(runes) > maxDescriptionLen {
		text = string(runes[:truncatedLen]) + continuationMark
	}
	return text
}
