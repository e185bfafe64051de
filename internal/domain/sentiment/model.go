// internal/domain/sentiment/model.go

package sentiment

import (
	"time"
)

// Category is a discrete sentiment class derived from a continuous score
type Category string

const (
	CategoryPositive Category = "Positive"
	CategoryNeutral  Category = "Neutral"
	CategoryNegative Category = "Negative"
)

// Categories lists all categories in tie-break priority order.
// Dominant-view ties resolve to the first matching entry.
var Categories = []Category{CategoryPositive, CategoryNegative, CategoryNeutral}

// RawRecord is one unprocessed item as returned by a news or mention source
type RawRecord struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Article is a normalized, sentiment-scored news item.
// Immutable once built by the normalizer.
type Article struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Score       float64    `json:"score"`
	Category    Category   `json:"category"`
}

// TopicSentimentSummary aggregates the sentiment of one batch of articles.
// Percentages are rounded to one decimal independently and are not
// re-normalized, so their sum can drift slightly from 100.
type TopicSentimentSummary struct {
	PositivePct  float64 `json:"positive_pct"`
	NeutralPct   float64 `json:"neutral_pct"`
	NegativePct  float64 `json:"negative_pct"`
	AverageScore float64 `json:"average_score"`
	SampleSize   int     `json:"sample_size"`
}

// Average returns the mean sentiment score, or false when the summary
// covers no articles (an absent average, not a zero one).
func (s TopicSentimentSummary) Average() (float64, bool) {
	if s.SampleSize == 0 {
		return 0, false
	}
	return s.AverageScore, true
}

// Region is one geographic scope over which news is sampled
type Region struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Alpha3 string `json:"alpha3"`
}

// Row is one (topic, region) cell of a regional table
type Row struct {
	Topic   string                `json:"topic"`
	Region  Region                `json:"region"`
	Summary TopicSentimentSummary `json:"summary"`
}

// RegionalTable holds per-cell summaries for one or more topics.
// Cells with no retrievable data are absent, not zero-filled.
type RegionalTable struct {
	Rows []Row `json:"rows"`
}

// RowsForTopic returns the rows belonging to one topic, in table order
func (t RegionalTable) RowsForTopic(topic string) []Row {
	var rows []Row
	for _, r := range t.Rows {
		if r.Topic == topic {
			rows = append(rows, r)
		}
	}
	return rows
}

// Lookup finds the cell for a (topic, region code) pair
func (t RegionalTable) Lookup(topic, regionCode string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Topic == topic && r.Region.Code == regionCode {
			return r, true
		}
	}
	return Row{}, false
}

// Topics returns the distinct topics present in the table, in first-seen order
func (t RegionalTable) Topics() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, r := range t.Rows {
		if !seen[r.Topic] {
			seen[r.Topic] = true
			topics = append(topics, r.Topic)
		}
	}
	return topics
}

// DominantCell names the strongest sentiment category for one region
type DominantCell struct {
	Region   Region   `json:"region"`
	Category Category `json:"category"`
	Pct      float64  `json:"pct"`
}

// ScoreCell carries a region's average score plus its clamped display value.
// Display is bounded to the diverging chart range; the underlying score
// is left untouched.
type ScoreCell struct {
	Region       Region  `json:"region"`
	AverageScore float64 `json:"average_score"`
	Display      float64 `json:"display"`
}

// RegionLeader names the best-scoring topic for one region
type RegionLeader struct {
	Region       Region  `json:"region"`
	Topic        string  `json:"topic"`
	AverageScore float64 `json:"average_score"`
}
