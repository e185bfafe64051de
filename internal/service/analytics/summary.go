// internal/service/analytics/summary.go

package analytics

import (
	"math"

	"brandpulse/internal/domain/sentiment"
)

// Summarize turns one batch of articles into a sentiment distribution
// and an average score. Percentages are rounded to one decimal each
// without re-normalization, so their sum may land slightly off 100;
// downstream consumers rely on the raw per-category rounding.
func Summarize(articles []sentiment.Article) sentiment.TopicSentimentSummary {
	total := len(articles)
	if total == 0 {
		return sentiment.TopicSentimentSummary{}
	}

	counts := make(map[sentiment.Category]int, 3)
	var scoreSum float64
	for _, a := range articles {
		counts[a.Category]++
		scoreSum += a.Score
	}

	pct := func(c sentiment.Category) float64 {
		return round1(100 * float64(counts[c]) / float64(total))
	}

	return sentiment.TopicSentimentSummary{
		PositivePct:  pct(sentiment.CategoryPositive),
		NeutralPct:   pct(sentiment.CategoryNeutral),
		NegativePct:  pct(sentiment.CategoryNegative),
		AverageScore: scoreSum / float64(total),
		SampleSize:   total,
	}
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
