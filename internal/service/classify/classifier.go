// internal/service/classify/classifier.go

package classify

import (
	"math"
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"brandpulse/internal/domain/sentiment"
)

// Category thresholds for the compound score. Scores inside the band,
// bounds included, are Neutral.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// VaderClassifier scores text with a VADER analyzer and maps the
// compound score onto a sentiment category. The analyzer holds no
// per-call state, so one instance is shared process-wide.
type VaderClassifier struct {
	once     sync.Once
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderClassifier creates a classifier. The underlying lexicon is
// loaded lazily on first use.
func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{}
}

// Classify scores one piece of text. Empty input yields a zero score
// and a Neutral category; it never errors.
func (c *VaderClassifier) Classify(text string) (float64, sentiment.Category) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, sentiment.CategoryNeutral
	}

	c.once.Do(func() {
		c.analyzer = govader.NewSentimentIntensityAnalyzer()
	})

	score := c.analyzer.PolarityScores(text).Compound
	if math.IsNaN(score) {
		score = 0
	}
	return score, Categorize(score)
}

// Categorize maps a score in [-1, 1] onto a category using the fixed
// threshold policy.
func Categorize(score float64) sentiment.Category {
	switch {
	case score > positiveThreshold:
		return sentiment.CategoryPositive
	case score < negativeThreshold:
		return sentiment.CategoryNegative
	default:
		return sentiment.CategoryNeutral
	}
}
