// internal/service/analytics/regional.go

package analytics

import (
	"context"
	"sync"

	"brandpulse/internal/domain/sentiment"
	"brandpulse/internal/logger"
)

// RegionalAggregator sweeps a fixed region list per topic and builds a
// regional table. Cells are independent and write-once, so they are
// fetched by a bounded worker pool. A cell that fails or comes back
// empty is omitted from the table; failure never aborts the sweep.
type RegionalAggregator struct {
	collector sentiment.Collector
	workers   int
}

// NewRegionalAggregator creates an aggregator over the given collector
func NewRegionalAggregator(collector sentiment.Collector, workers int) *RegionalAggregator {
	if workers < 1 {
		workers = 1
	}
	return &RegionalAggregator{
		collector: collector,
		workers:   workers,
	}
}

type cellJob struct {
	index  int
	topic  string
	region sentiment.Region
}

// BuildRegionalTable aggregates every (topic, region) cell. Row order
// is deterministic: topics in input order, regions in sweep order,
// with empty or failed cells skipped.
func (ra *RegionalAggregator) BuildRegionalTable(ctx context.Context, topics []string, regions []sentiment.Region) sentiment.RegionalTable {
	jobs := make([]cellJob, 0, len(topics)*len(regions))
	for _, topic := range topics {
		for _, region := range regions {
			jobs = append(jobs, cellJob{index: len(jobs), topic: topic, region: region})
		}
	}

	results := make([]*sentiment.Row, len(jobs))
	jobCh := make(chan cellJob)

	var wg sync.WaitGroup
	for i := 0; i < ra.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results[job.index] = ra.aggregateCell(ctx, job.topic, job.region)
			}
		}()
	}

	for _, job := range jobs {
		select {
		case jobCh <- job:
		case <-ctx.Done():
			// Abandoned runs keep whatever cells completed; partial
			// tables are valid, just incomplete.
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobCh)
	wg.Wait()

	var table sentiment.RegionalTable
	for _, row := range results {
		if row != nil {
			table.Rows = append(table.Rows, *row)
		}
	}
	return table
}

// aggregateCell summarizes one (topic, region) pair, or returns nil
// when the cell has no data
func (ra *RegionalAggregator) aggregateCell(ctx context.Context, topic string, region sentiment.Region) *sentiment.Row {
	log := logger.Log.WithFields(map[string]interface{}{
		"topic":  topic,
		"region": region.Code,
	})

	articles, err := ra.collector.Collect(ctx, topic, region)
	if err != nil {
		// Fetch failures degrade to "no data for this cell"; the log
		// line is what keeps them distinguishable from empty results.
		log.WithError(err).Warn("cell fetch failed, omitting from table")
		return nil
	}
	if len(articles) == 0 {
		log.Debug("no articles for cell, omitting from table")
		return nil
	}

	return &sentiment.Row{
		Topic:   topic,
		Region:  region,
		Summary: Summarize(articles),
	}
}
