// internal/service/analytics/compare_test.go

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandpulse/internal/domain/sentiment"
)

func region(code string) sentiment.Region {
	r, _ := sentiment.RegionByCode(code)
	return r
}

func row(topic, regionCode string, positive, neutral, negative, avg float64, samples int) sentiment.Row {
	return sentiment.Row{
		Topic:  topic,
		Region: region(regionCode),
		Summary: sentiment.TopicSentimentSummary{
			PositivePct:  positive,
			NeutralPct:   neutral,
			NegativePct:  negative,
			AverageScore: avg,
			SampleSize:   samples,
		},
	}
}

func TestDominantViewPicksStrongestCategory(t *testing.T) {
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 60, 30, 10, 0.3, 10),
		row("acme", "GB", 20, 30, 50, -0.2, 10),
		row("acme", "DE", 10, 80, 10, 0.0, 10),
	}}

	cells := DominantView(table, "acme")
	require.Len(t, cells, 3)

	assert.Equal(t, sentiment.CategoryPositive, cells[0].Category)
	assert.Equal(t, 60.0, cells[0].Pct)
	assert.Equal(t, sentiment.CategoryNegative, cells[1].Category)
	assert.Equal(t, sentiment.CategoryNeutral, cells[2].Category)
}

func TestDominantViewTieResolvesByPriority(t *testing.T) {
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 40, 20, 40, 0.0, 10),
		row("acme", "GB", 30, 40, 40, -0.1, 10),
	}}

	cells := DominantView(table, "acme")
	require.Len(t, cells, 2)

	// Positive outranks Negative on an exact tie.
	assert.Equal(t, sentiment.CategoryPositive, cells[0].Category)
	// Negative outranks Neutral on an exact tie.
	assert.Equal(t, sentiment.CategoryNegative, cells[1].Category)
}

func TestDominantViewUnknownTopic(t *testing.T) {
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 50, 30, 20, 0.1, 5),
	}}

	assert.Empty(t, DominantView(table, "other"))
}

func TestScoreViewClampsDisplayOnly(t *testing.T) {
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 90, 5, 5, 0.82, 10),
		row("acme", "GB", 5, 5, 90, -0.74, 10),
		row("acme", "DE", 30, 40, 30, 0.12, 10),
	}}

	cells := ScoreView(table, "acme")
	require.Len(t, cells, 3)

	assert.Equal(t, 0.82, cells[0].AverageScore)
	assert.Equal(t, 0.5, cells[0].Display)
	assert.Equal(t, -0.74, cells[1].AverageScore)
	assert.Equal(t, -0.5, cells[1].Display)
	assert.Equal(t, 0.12, cells[2].AverageScore)
	assert.Equal(t, 0.12, cells[2].Display)
}

func TestScoreViewSkipsEmptyCells(t *testing.T) {
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 0, 0, 0, 0, 0),
		row("acme", "GB", 50, 30, 20, 0.2, 4),
	}}

	cells := ScoreView(table, "acme")
	require.Len(t, cells, 1)
	assert.Equal(t, "GB", cells[0].Region.Code)
}

func TestLeaderViewNeedsTwoTopics(t *testing.T) {
	table := sentiment.RegionalTable{}

	_, err := LeaderView(table, []string{"acme"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentiment.ErrNotApplicable)

	_, err = LeaderView(table, nil)
	assert.ErrorIs(t, err, sentiment.ErrNotApplicable)
}

func TestLeaderViewPicksHighestAveragePerRegion(t *testing.T) {
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 60, 30, 10, 0.4, 10),
		row("acme", "GB", 20, 40, 40, -0.1, 10),
		row("globex", "US", 30, 50, 20, 0.1, 10),
		row("globex", "GB", 50, 30, 20, 0.3, 10),
	}}

	leaders, err := LeaderView(table, []string{"acme", "globex"})
	require.NoError(t, err)
	require.Len(t, leaders, 2)

	assert.Equal(t, "US", leaders[0].Region.Code)
	assert.Equal(t, "acme", leaders[0].Topic)
	assert.Equal(t, 0.4, leaders[0].AverageScore)

	assert.Equal(t, "GB", leaders[1].Region.Code)
	assert.Equal(t, "globex", leaders[1].Topic)
}

func TestLeaderViewExcludesRegionsWithMissingData(t *testing.T) {
	// GB has no globex row, so it cannot be compared fairly.
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 60, 30, 10, 0.4, 10),
		row("acme", "GB", 20, 40, 40, -0.1, 10),
		row("globex", "US", 30, 50, 20, 0.1, 10),
	}}

	leaders, err := LeaderView(table, []string{"acme", "globex"})
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	assert.Equal(t, "US", leaders[0].Region.Code)
}

func TestLeaderViewTieKeepsEarliestTopic(t *testing.T) {
	table := sentiment.RegionalTable{Rows: []sentiment.Row{
		row("acme", "US", 50, 30, 20, 0.25, 10),
		row("globex", "US", 50, 30, 20, 0.25, 10),
	}}

	leaders, err := LeaderView(table, []string{"acme", "globex"})
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	assert.Equal(t, "acme", leaders[0].Topic)
}
