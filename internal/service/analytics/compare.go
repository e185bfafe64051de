// internal/service/analytics/compare.go

package analytics

import (
	"fmt"

	"brandpulse/internal/domain/sentiment"
)

// Display bounds for the diverging score scale. Scores outside the
// band are clamped for display only; the table data keeps the raw value.
const (
	scoreDisplayMin = -0.5
	scoreDisplayMax = 0.5
)

// DominantView picks the strongest sentiment category per region for
// one topic. Exact ties resolve by fixed priority: Positive beats
// Negative beats Neutral, regardless of storage order.
func DominantView(table sentiment.RegionalTable, topic string) []sentiment.DominantCell {
	rows := table.RowsForTopic(topic)
	cells := make([]sentiment.DominantCell, 0, len(rows))

	for _, row := range rows {
		pcts := map[sentiment.Category]float64{
			sentiment.CategoryPositive: row.Summary.PositivePct,
			sentiment.CategoryNegative: row.Summary.NegativePct,
			sentiment.CategoryNeutral:  row.Summary.NeutralPct,
		}

		best := sentiment.Categories[0]
		for _, c := range sentiment.Categories[1:] {
			if pcts[c] > pcts[best] {
				best = c
			}
		}

		cells = append(cells, sentiment.DominantCell{
			Region:   row.Region,
			Category: best,
			Pct:      pcts[best],
		})
	}
	return cells
}

// ScoreView exposes the average score per region for one topic,
// alongside a display value clamped to the diverging chart range.
func ScoreView(table sentiment.RegionalTable, topic string) []sentiment.ScoreCell {
	rows := table.RowsForTopic(topic)
	cells := make([]sentiment.ScoreCell, 0, len(rows))

	for _, row := range rows {
		avg, ok := row.Summary.Average()
		if !ok {
			continue
		}
		cells = append(cells, sentiment.ScoreCell{
			Region:       row.Region,
			AverageScore: avg,
			Display:      clamp(avg, scoreDisplayMin, scoreDisplayMax),
		})
	}
	return cells
}

// LeaderView determines, per region, which of the compared topics has
// the highest average score. Only regions with data for every compared
// topic participate; a partial comparison would not be meaningful.
// Ties resolve to the earliest topic in the input order. Comparing
// fewer than two topics is reported as not applicable, not an error.
func LeaderView(table sentiment.RegionalTable, topics []string) ([]sentiment.RegionLeader, error) {
	if len(topics) < 2 {
		return nil, fmt.Errorf("leader view needs at least two topics, got %d: %w",
			len(topics), sentiment.ErrNotApplicable)
	}

	// Regions are compared in the first topic's row order, which
	// mirrors the sweep order the table was built with.
	first := table.RowsForTopic(topics[0])

	var leaders []sentiment.RegionLeader
	for _, row := range first {
		leader, ok := leaderForRegion(table, topics, row.Region)
		if !ok {
			continue
		}
		leaders = append(leaders, leader)
	}
	return leaders, nil
}

// leaderForRegion compares all topics for one region. It reports false
// when any compared topic lacks data there.
func leaderForRegion(table sentiment.RegionalTable, topics []string, region sentiment.Region) (sentiment.RegionLeader, bool) {
	var leader sentiment.RegionLeader
	for i, topic := range topics {
		row, ok := table.Lookup(topic, region.Code)
		if !ok {
			return sentiment.RegionLeader{}, false
		}
		avg, ok := row.Summary.Average()
		if !ok {
			return sentiment.RegionLeader{}, false
		}
		if i == 0 || avg > leader.AverageScore {
			leader = sentiment.RegionLeader{
				Region:       region,
				Topic:        topic,
				AverageScore: avg,
			}
		}
	}
	return leader, true
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
