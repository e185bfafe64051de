// internal/service/analysis/service_test.go

package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandpulse/internal/adapter/stock"
	"brandpulse/internal/adapter/trends"
	"brandpulse/internal/cache"
	domainreport "brandpulse/internal/domain/report"
	"brandpulse/internal/domain/sentiment"
	"brandpulse/internal/service/analytics"
	"brandpulse/internal/service/classify"
	"brandpulse/internal/service/ingest"
	reportsvc "brandpulse/internal/service/report"
)

// stubCollector serves fixed articles for every cell
type stubCollector struct {
	articles []sentiment.Article
	err      error
}

func (s *stubCollector) Collect(ctx context.Context, topic string, region sentiment.Region) ([]sentiment.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

// recordingStore captures lifecycle calls
type recordingStore struct {
	saved     *domainreport.Document
	savedRun  string
	completed []string
	failed    []string
}

func (r *recordingStore) CompleteRun(ctx context.Context, id string) error {
	r.completed = append(r.completed, id)
	return nil
}

func (r *recordingStore) FailRun(ctx context.Context, id string, runErr error) error {
	r.failed = append(r.failed, id)
	return nil
}

func (r *recordingStore) SaveReport(ctx context.Context, runID string, doc domainreport.Document) error {
	r.saved = &doc
	r.savedRun = runID
	return nil
}

func trendsServer(t *testing.T, topics ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type point struct {
			Time  time.Time `json:"time"`
			Value float64   `json:"value"`
		}
		type series struct {
			Topic  string  `json:"topic"`
			Points []point `json:"points"`
		}
		var all []series
		for _, topic := range topics {
			all = append(all, series{Topic: topic, Points: []point{
				{Time: time.Now(), Value: 20},
				{Time: time.Now(), Value: 55},
				{Time: time.Now(), Value: 80},
			}})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"series": all})
	}))
}

func newTestService(collector sentiment.Collector, store RunStore, trendsURL string) *Service {
	normalizer := ingest.NewNormalizer(classify.NewVaderClassifier())
	return NewService(
		analytics.NewRegionalAggregator(collector, 2),
		collector,
		nil,
		normalizer,
		trends.NewClient(trendsURL, "now 7-d", time.Second),
		stock.NewClient("http://127.0.0.1:0", time.Second),
		reportsvc.NewRenderer(),
		store,
		nil,
		cache.New(),
		Config{
			Regions:     sentiment.RegionsFor([]string{"US", "GB"}),
			NewsTTL:     time.Minute,
			SweepTTL:    time.Minute,
			EventsTopic: "analysis",
			MaxMentions: 25,
		},
	)
}

func positiveArticles() []sentiment.Article {
	return []sentiment.Article{
		{Title: "a", Link: "https://example.com/a", Score: 0.5, Category: sentiment.CategoryPositive},
		{Title: "b", Link: "https://example.com/b", Score: -0.3, Category: sentiment.CategoryNegative},
		{Title: "c", Link: "https://example.com/c", Score: 0.0, Category: sentiment.CategoryNeutral},
	}
}

func TestRunSingleTopic(t *testing.T) {
	server := trendsServer(t, "acme")
	defer server.Close()

	store := &recordingStore{}
	svc := newTestService(&stubCollector{articles: positiveArticles()}, store, server.URL)

	doc, err := svc.Run(context.Background(), RunOptions{RunID: "run-1", Topics: []string{"acme"}})
	require.NoError(t, err)
	require.NotNil(t, doc)

	require.Len(t, doc.Sections, 1)
	section := doc.Sections[0]
	assert.Equal(t, "acme", section.Topic)

	// Two regions times three articles each.
	assert.Equal(t, 6, section.Summary.SampleSize)
	assert.Len(t, section.Dominant, 2)
	assert.Len(t, section.Scores, 2)

	require.Len(t, section.Visuals, 3)
	assert.True(t, section.Visuals[0].Present, "distribution chart")
	assert.True(t, section.Visuals[1].Present, "search interest chart")
	assert.True(t, section.Visuals[2].Present, "regional score chart")

	// Single-topic runs carry the not-applicable leader note.
	assert.Empty(t, doc.Leaders)
	assert.NotEmpty(t, doc.LeaderNote)

	require.NotNil(t, store.saved)
	assert.Equal(t, "run-1", store.savedRun)
	assert.Equal(t, []string{"run-1"}, store.completed)
	assert.Empty(t, store.failed)
}

func TestRunTwoTopicsProducesLeaders(t *testing.T) {
	server := trendsServer(t, "acme", "globex")
	defer server.Close()

	store := &recordingStore{}
	svc := newTestService(&stubCollector{articles: positiveArticles()}, store, server.URL)

	doc, err := svc.Run(context.Background(), RunOptions{RunID: "run-2", Topics: []string{"acme", "globex"}})
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	require.Len(t, doc.Leaders, 2)
	assert.Empty(t, doc.LeaderNote)
	// Identical data across topics ties; the first topic wins.
	assert.Equal(t, "acme", doc.Leaders[0].Topic)
}

func TestRunDegradesWhenTrendsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := &recordingStore{}
	svc := newTestService(&stubCollector{articles: positiveArticles()}, store, server.URL)

	doc, err := svc.Run(context.Background(), RunOptions{RunID: "run-3", Topics: []string{"acme"}})
	require.NoError(t, err)

	section := doc.Sections[0]
	assert.True(t, section.Visuals[0].Present)
	assert.False(t, section.Visuals[1].Present, "search interest degrades to placeholder")
	assert.Equal(t, domainreport.PlaceholderText, section.Visuals[1].Placeholder)
}

func TestRunWithNoCollectableData(t *testing.T) {
	server := trendsServer(t, "acme")
	defer server.Close()

	store := &recordingStore{}
	svc := newTestService(&stubCollector{articles: nil}, store, server.URL)

	doc, err := svc.Run(context.Background(), RunOptions{RunID: "run-4", Topics: []string{"acme"}})
	require.NoError(t, err)

	// The textual section survives with an empty summary; the
	// data-dependent charts fall back to placeholders.
	section := doc.Sections[0]
	assert.Equal(t, 0, section.Summary.SampleSize)
	assert.False(t, section.Visuals[0].Present)
	assert.False(t, section.Visuals[2].Present)
	assert.Equal(t, []string{"run-4"}, store.completed)
}

func TestRunRejectsEmptyTopics(t *testing.T) {
	store := &recordingStore{}
	svc := newTestService(&stubCollector{}, store, "http://127.0.0.1:0")

	_, err := svc.Run(context.Background(), RunOptions{RunID: "run-5"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentiment.ErrNotApplicable)
	assert.Equal(t, []string{"run-5"}, store.failed)
	assert.Empty(t, store.completed)
}

func TestRunRejectsUnknownRegions(t *testing.T) {
	store := &recordingStore{}
	svc := newTestService(&stubCollector{}, store, "http://127.0.0.1:0")

	_, err := svc.Run(context.Background(), RunOptions{
		RunID:       "run-6",
		Topics:      []string{"acme"},
		RegionCodes: []string{"XX"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentiment.ErrNotApplicable)
}
