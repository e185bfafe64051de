// internal/service/analysis/service.go

package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"brandpulse/internal/adapter/stock"
	"brandpulse/internal/adapter/trends"
	"brandpulse/internal/cache"
	domainreport "brandpulse/internal/domain/report"
	"brandpulse/internal/domain/sentiment"
	"brandpulse/internal/logger"
	"brandpulse/internal/service/analytics"
	"brandpulse/internal/service/ingest"
	reportsvc "brandpulse/internal/service/report"
)

// Config contains coordinator configuration
type Config struct {
	Regions     []sentiment.Region
	NewsTTL     time.Duration
	SweepTTL    time.Duration
	EventsTopic string
	MaxMentions int
}

// RunOptions describes one analytics run. Regions defaults to the
// configured sweep list; Tickers maps a topic to an optional stock
// ticker whose price history is charted alongside it.
type RunOptions struct {
	RunID       string
	Topics      []string
	RegionCodes []string
	Tickers     map[string]string
}

// RunStore records run outcomes and persists assembled documents.
// Run creation happens at the transport layer, before the run starts.
type RunStore interface {
	CompleteRun(ctx context.Context, id string) error
	FailRun(ctx context.Context, id string, runErr error) error
	SaveReport(ctx context.Context, runID string, doc domainreport.Document) error
}

// Service coordinates one full analytics run: regional sweep,
// comparative views, chart rendering, assembly, persistence, and event
// publication. Failures in any one cell or visual never abort the run;
// the assembled document is the single guaranteed output.
type Service struct {
	aggregator *analytics.RegionalAggregator
	collector  sentiment.Collector
	mentions   sentiment.MentionSource
	normalizer *ingest.Normalizer
	trends     *trends.Client
	stock      *stock.Client
	renderer   *reportsvc.Renderer
	store      RunStore
	eventBus   *nats.Conn
	cache      *cache.Cache
	config     Config
}

// NewService creates a run coordinator. The mention source, store and
// event bus may be nil; the corresponding steps are skipped.
func NewService(
	aggregator *analytics.RegionalAggregator,
	collector sentiment.Collector,
	mentions sentiment.MentionSource,
	normalizer *ingest.Normalizer,
	trendsClient *trends.Client,
	stockClient *stock.Client,
	renderer *reportsvc.Renderer,
	store RunStore,
	eventBus *nats.Conn,
	c *cache.Cache,
	config Config,
) *Service {
	return &Service{
		aggregator: aggregator,
		collector:  collector,
		mentions:   mentions,
		normalizer: normalizer,
		trends:     trendsClient,
		stock:      stockClient,
		renderer:   renderer,
		store:      store,
		eventBus:   eventBus,
		cache:      c,
		config:     config,
	}
}

// Run executes one analytics run and returns the assembled document
func (s *Service) Run(ctx context.Context, opts RunOptions) (*domainreport.Document, error) {
	if len(opts.Topics) == 0 {
		return nil, s.fail(ctx, opts.RunID, fmt.Errorf("no topics requested: %w", sentiment.ErrNotApplicable))
	}

	regions := s.config.Regions
	if len(opts.RegionCodes) > 0 {
		regions = sentiment.RegionsFor(opts.RegionCodes)
	}
	if len(regions) == 0 {
		return nil, s.fail(ctx, opts.RunID, fmt.Errorf("no known regions requested: %w", sentiment.ErrNotApplicable))
	}

	s.publishProgress(opts.RunID, "sweep", 5, "building regional table")

	table := s.buildTable(ctx, opts.Topics, regions)

	var sections []reportsvc.TopicInput
	for i, topic := range opts.Topics {
		s.publishProgress(opts.RunID, "topic", 20+60*i/len(opts.Topics), "analyzing "+topic)
		sections = append(sections, s.topicInput(ctx, topic, regions, table, opts.Tickers[topic]))
	}

	leaders, leaderNote := s.leaders(table, opts.Topics)

	s.publishProgress(opts.RunID, "assemble", 90, "assembling report")
	doc := reportsvc.AssembleReport(reportTitle(opts.Topics), sections, leaders, leaderNote)

	if s.store != nil && opts.RunID != "" {
		if err := s.store.SaveReport(ctx, opts.RunID, doc); err != nil {
			// The document is still the caller's result; persistence
			// failure is logged, not fatal.
			logger.Log.WithError(err).Error("failed to persist report")
		}
		if err := s.store.CompleteRun(ctx, opts.RunID); err != nil {
			logger.Log.WithError(err).Error("failed to mark run completed")
		}
	}

	s.publishEvent("completed", map[string]interface{}{
		"run_id":    opts.RunID,
		"report_id": doc.ID,
		"topics":    opts.Topics,
	})
	s.publishProgress(opts.RunID, "done", 100, "completed")

	return &doc, nil
}

// buildTable runs the region sweep through the cache layer. Sweeps fan
// out to one fetch per cell, so they carry the longer TTL.
func (s *Service) buildTable(ctx context.Context, topics []string, regions []sentiment.Region) sentiment.RegionalTable {
	key := cache.Key("sweep", strings.Join(topics, ","), regionKey(regions))

	table, err := cache.Fetch(ctx, s.cache, key, s.config.SweepTTL, func(ctx context.Context) (sentiment.RegionalTable, error) {
		return s.aggregator.BuildRegionalTable(ctx, topics, regions), nil
	})
	if err != nil {
		// Only context cancellation can surface here; an abandoned
		// run yields an empty table.
		logger.Log.WithError(err).Warn("region sweep interrupted")
		return sentiment.RegionalTable{}
	}
	return table
}

// topicInput gathers everything one report section needs
func (s *Service) topicInput(ctx context.Context, topic string, regions []sentiment.Region, table sentiment.RegionalTable, ticker string) reportsvc.TopicInput {
	articles := s.topicArticles(ctx, topic, regions)
	summary := analytics.Summarize(articles)

	input := reportsvc.TopicInput{
		Topic:    topic,
		Summary:  summary,
		Dominant: analytics.DominantView(table, topic),
		Scores:   analytics.ScoreView(table, topic),
	}

	input.Visuals = append(input.Visuals, s.renderDistribution(summary))
	input.Visuals = append(input.Visuals, s.renderInterest(ctx, topic))
	input.Visuals = append(input.Visuals, s.renderRegionalScores(input.Scores))
	if ticker != "" {
		input.Visuals = append(input.Visuals, s.renderPriceHistory(ctx, ticker))
	}

	return input
}

// topicArticles merges the topic's regional articles with social
// mentions. Cell fetches were already cached by the sweep, so the
// second pass is served from memory.
func (s *Service) topicArticles(ctx context.Context, topic string, regions []sentiment.Region) []sentiment.Article {
	var articles []sentiment.Article
	for _, region := range regions {
		cell, err := s.collector.Collect(ctx, topic, region)
		if err != nil {
			continue
		}
		articles = append(articles, cell...)
	}

	if s.mentions != nil {
		records, err := s.mentions.FetchMentions(ctx, topic, s.config.MaxMentions)
		if err != nil {
			logger.Log.WithField("topic", topic).WithError(err).Warn("mention fetch failed")
		} else {
			articles = append(articles, s.normalizer.NormalizeBatch(records)...)
		}
	}

	return articles
}

func (s *Service) renderDistribution(summary sentiment.TopicSentimentSummary) domainreport.VisualResult {
	png, err := s.renderer.DistributionChart(summary)
	if err != nil {
		return domainreport.Failed("sentiment-distribution", "Sentiment Distribution", err)
	}
	return domainreport.Rendered(domainreport.Visual{
		Name:  "sentiment-distribution",
		Title: "Sentiment Distribution",
		PNG:   png,
	})
}

func (s *Service) renderInterest(ctx context.Context, topic string) domainreport.VisualResult {
	const name, title = "search-interest", "Search Interest"

	series, err := cache.Fetch(ctx, s.cache, cache.Key("trends", topic), s.config.NewsTTL,
		func(ctx context.Context) (map[string]trends.Series, error) {
			return s.trends.InterestOverTime(ctx, []string{topic}, "")
		})
	if err != nil {
		return domainreport.Failed(name, title, err)
	}

	topicSeries, ok := series[topic]
	if !ok {
		return domainreport.Failed(name, title, trends.ErrUnavailable)
	}

	png, err := s.renderer.Sparkline(topicSeries.Values())
	if err != nil {
		return domainreport.Failed(name, title, err)
	}
	return domainreport.Rendered(domainreport.Visual{Name: name, Title: title, PNG: png})
}

func (s *Service) renderRegionalScores(cells []sentiment.ScoreCell) domainreport.VisualResult {
	const name, title = "regional-scores", "Regional Sentiment Scores"

	png, err := s.renderer.RegionalScoreChart(cells)
	if err != nil {
		return domainreport.Failed(name, title, err)
	}
	return domainreport.Rendered(domainreport.Visual{Name: name, Title: title, PNG: png})
}

func (s *Service) renderPriceHistory(ctx context.Context, ticker string) domainreport.VisualResult {
	const name, title = "price-history", "Price History"

	quotes, err := cache.Fetch(ctx, s.cache, cache.Key("stock", ticker), s.config.NewsTTL,
		func(ctx context.Context) (map[string][]stock.Quote, error) {
			return s.stock.DailyCloses(ctx, []string{ticker}, 30)
		})
	if err != nil {
		return domainreport.Failed(name, title, err)
	}

	series := quotes[ticker]
	values := make([]float64, 0, len(series))
	for _, q := range series {
		values = append(values, q.Close)
	}

	png, err := s.renderer.Sparkline(values)
	if err != nil {
		return domainreport.Failed(name, title, err)
	}
	return domainreport.Rendered(domainreport.Visual{Name: name, Title: title, PNG: png})
}

// leaders computes the cross-topic leader view, degrading to an
// explanatory note when the comparison is not applicable
func (s *Service) leaders(table sentiment.RegionalTable, topics []string) ([]sentiment.RegionLeader, string) {
	leaders, err := analytics.LeaderView(table, topics)
	if err != nil {
		if errors.Is(err, sentiment.ErrNotApplicable) {
			return nil, "Leader comparison needs at least two topics."
		}
		logger.Log.WithError(err).Warn("leader view failed")
		return nil, ""
	}
	if len(leaders) == 0 {
		return nil, "No region had data for every compared topic."
	}
	return leaders, ""
}

// fail records the run as failed and emits the failure event, then
// hands the original error back
func (s *Service) fail(ctx context.Context, runID string, runErr error) error {
	if s.store != nil && runID != "" {
		if err := s.store.FailRun(ctx, runID, runErr); err != nil {
			logger.Log.WithError(err).Error("failed to mark run failed")
		}
	}
	s.publishEvent("failed", map[string]interface{}{
		"run_id": runID,
		"error":  runErr.Error(),
	})
	return runErr
}

// publishEvent emits one lifecycle event on the bus
func (s *Service) publishEvent(kind string, payload map[string]interface{}) {
	if s.eventBus == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithError(err).Error("failed to marshal event payload")
		return
	}

	topic := fmt.Sprintf("%s.%s", s.config.EventsTopic, kind)
	if err := s.eventBus.Publish(topic, data); err != nil {
		logger.Log.WithError(err).Warn("failed to publish event")
	}
}

// publishProgress emits a per-run progress event consumed by the
// websocket relay
func (s *Service) publishProgress(runID, stage string, pct int, message string) {
	if s.eventBus == nil || runID == "" {
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"run_id":  runID,
		"stage":   stage,
		"pct":     pct,
		"message": message,
	})
	if err != nil {
		return
	}

	topic := fmt.Sprintf("%s.progress.%s", s.config.EventsTopic, runID)
	if err := s.eventBus.Publish(topic, data); err != nil {
		logger.Log.WithError(err).Debug("failed to publish progress")
	}
}

func reportTitle(topics []string) string {
	return "Brand Reputation Report: " + strings.Join(topics, " vs ")
}

func regionKey(regions []sentiment.Region) string {
	codes := make([]string, 0, len(regions))
	for _, r := range regions {
		codes = append(codes, r.Code)
	}
	return strings.Join(codes, ",")
}
