// internal/domain/sentiment/collaborators.go

package sentiment

import (
	"context"
	"errors"
)

// ErrNotApplicable reports an operation that cannot produce a meaningful
// result for its input, such as a leader view over fewer than two topics.
// It is an explicit outcome for the caller, not a failure of the engine.
var ErrNotApplicable = errors.New("not applicable for the given input")

// Classifier scores a piece of text and maps it onto a category.
// Implementations must be deterministic and must tolerate empty input.
type Classifier interface {
	Classify(text string) (score float64, category Category)
}

// NewsSource returns raw article records for a (topic, region) pair.
// An empty slice is a valid outcome distinct from an error; callers
// aggregate both the same way but log them differently.
type NewsSource interface {
	FetchArticles(ctx context.Context, topic string, region Region) ([]RawRecord, error)
}

// MentionSource returns raw social mention records for a topic.
// Mentions carry no region and only enrich topic-level summaries.
type MentionSource interface {
	FetchMentions(ctx context.Context, topic string, limit int) ([]RawRecord, error)
}

// Collector yields normalized, classified articles for one cell
type Collector interface {
	Collect(ctx context.Context, topic string, region Region) ([]Article, error)
}
