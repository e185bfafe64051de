// internal/service/ingest/collector.go

package ingest

import (
	"context"
	"time"

	"brandpulse/internal/cache"
	"brandpulse/internal/domain/sentiment"
	"brandpulse/internal/logger"
)

// CachedCollector fetches raw records for a (topic, region) cell
// through the cache layer and normalizes them. The raw fetch is what
// gets cached; normalization is deterministic and cheap to repeat.
type CachedCollector struct {
	source     sentiment.NewsSource
	normalizer *Normalizer
	cache      *cache.Cache
	ttl        time.Duration
}

// NewCachedCollector wires a news source, normalizer and cache together
func NewCachedCollector(source sentiment.NewsSource, normalizer *Normalizer, c *cache.Cache, ttl time.Duration) *CachedCollector {
	return &CachedCollector{
		source:     source,
		normalizer: normalizer,
		cache:      c,
		ttl:        ttl,
	}
}

// Collect returns normalized articles for one cell. Fetch errors
// propagate so the aggregator can distinguish a failed cell from an
// empty one in its diagnostics.
func (c *CachedCollector) Collect(ctx context.Context, topic string, region sentiment.Region) ([]sentiment.Article, error) {
	key := cache.Key("news", topic, region.Code)

	records, err := cache.Fetch(ctx, c.cache, key, c.ttl, func(ctx context.Context) ([]sentiment.RawRecord, error) {
		return c.source.FetchArticles(ctx, topic, region)
	})
	if err != nil {
		return nil, err
	}

	articles := c.normalizer.NormalizeBatch(records)
	logger.Log.WithFields(map[string]interface{}{
		"topic":    topic,
		"region":   region.Code,
		"fetched":  len(records),
		"articles": len(articles),
	}).Debug("collected cell articles")

	return articles, nil
}
