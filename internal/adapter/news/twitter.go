// internal/adapter/news/twitter.go

package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"brandpulse/internal/domain/sentiment"
)

// TwitterSource fetches recent tweets mentioning a topic as raw
// records. Mentions carry no region; they only feed topic-level
// summaries. The source is constructed only when a bearer token is
// configured.
type TwitterSource struct {
	client *twitter.Client
}

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// NewTwitterSource creates a mentions source using the v2 recent
// search API
func NewTwitterSource(bearerToken string, timeout time.Duration) *TwitterSource {
	return &TwitterSource{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: bearerToken},
			Client:     &http.Client{Timeout: timeout},
			Host:       "https://api.twitter.com",
		},
	}
}

// FetchMentions returns up to limit recent mentions of the topic.
// The recent-search API accepts result counts between 10 and 100.
func (s *TwitterSource) FetchMentions(ctx context.Context, topic string, limit int) ([]sentiment.RawRecord, error) {
	if limit < 10 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	opts := twitter.TweetRecentSearchOpts{
		MaxResults:  limit,
		TweetFields: []twitter.TweetField{twitter.TweetFieldCreatedAt},
	}

	resp, err := s.client.TweetRecentSearch(ctx, topic+" -is:retweet lang:en", opts)
	if err != nil {
		return nil, fmt.Errorf("searching mentions for %q: %w", topic, err)
	}

	records := make([]sentiment.RawRecord, 0, len(resp.Raw.Tweets))
	for _, tweet := range resp.Raw.Tweets {
		record := sentiment.RawRecord{
			Title:  tweet.Text,
			Link:   "https://twitter.com/i/web/status/" + tweet.ID,
			Source: "Twitter",
		}
		if ts, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
			record.PublishedAt = &ts
		}
		records = append(records, record)
	}
	return records, nil
}
