// internal/adapter/news/googlenews.go

package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"brandpulse/internal/domain/sentiment"
)

// GoogleNewsSource fetches raw article records from the Google News
// RSS search feed, scoped to a region via the hl/gl/ceid parameters.
// Requests are rate limited and bounded by a client timeout; a timeout
// is an ordinary fetch failure, never a hang.
type GoogleNewsSource struct {
	baseURL     string
	parser      *gofeed.Parser
	limiter     *rate.Limiter
	maxArticles int
}

// GoogleNewsConfig configures the RSS source
type GoogleNewsConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerMin int
	MaxArticles    int
}

// NewGoogleNewsSource creates a Google News RSS source
func NewGoogleNewsSource(cfg GoogleNewsConfig) *GoogleNewsSource {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: cfg.RequestTimeout}
	parser.UserAgent = "brandpulse/1.0"

	rpm := cfg.RequestsPerMin
	if rpm < 1 {
		rpm = 30
	}

	return &GoogleNewsSource{
		baseURL:     cfg.BaseURL,
		parser:      parser,
		limiter:     rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		maxArticles: cfg.MaxArticles,
	}
}

// FetchArticles returns raw records for one (topic, region) pair.
// An empty feed is a valid empty result, not an error.
func (s *GoogleNewsSource) FetchArticles(ctx context.Context, topic string, region sentiment.Region) ([]sentiment.RawRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(s.feedURL(topic, region), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching news for %q in %s: %w", topic, region.Code, err)
	}

	records := make([]sentiment.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		record := sentiment.RawRecord{
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			PublishedAt: item.PublishedParsed,
		}
		if len(item.Authors) > 0 {
			record.Source = item.Authors[0].Name
		}
		records = append(records, record)

		if s.maxArticles > 0 && len(records) >= s.maxArticles {
			break
		}
	}
	return records, nil
}

// feedURL builds the region-scoped search feed URL
func (s *GoogleNewsSource) feedURL(topic string, region sentiment.Region) string {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("hl", "en-"+region.Code)
	params.Set("gl", region.Code)
	params.Set("ceid", region.Code+":en")
	return s.baseURL + "?" + params.Encode()
}
