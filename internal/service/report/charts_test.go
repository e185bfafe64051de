// internal/service/report/charts_test.go

package report

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandpulse/internal/domain/sentiment"
)

func decodePNG(t *testing.T, data []byte) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.NotEmpty(t, img.Bounds().Dx())
}

func TestDistributionChartRendersPNG(t *testing.T) {
	r := NewRenderer()

	data, err := r.DistributionChart(summaryFixture())
	require.NoError(t, err)
	decodePNG(t, data)
}

func TestDistributionChartRejectsEmptySummary(t *testing.T) {
	r := NewRenderer()

	_, err := r.DistributionChart(sentiment.TopicSentimentSummary{})
	assert.Error(t, err)
}

func TestSparklineRendersPNG(t *testing.T) {
	r := NewRenderer()

	data, err := r.Sparkline([]float64{10, 40, 25, 60, 55, 80})
	require.NoError(t, err)
	decodePNG(t, data)
}

func TestSparklineFlatSeries(t *testing.T) {
	r := NewRenderer()

	data, err := r.Sparkline([]float64{50, 50, 50})
	require.NoError(t, err)
	decodePNG(t, data)
}

func TestSparklineNeedsTwoPoints(t *testing.T) {
	r := NewRenderer()

	_, err := r.Sparkline(nil)
	assert.Error(t, err)

	_, err = r.Sparkline([]float64{42})
	assert.Error(t, err)
}

func TestRegionalScoreChartRendersPNG(t *testing.T) {
	r := NewRenderer()
	us, _ := sentiment.RegionByCode("US")
	gb, _ := sentiment.RegionByCode("GB")

	data, err := r.RegionalScoreChart([]sentiment.ScoreCell{
		{Region: us, AverageScore: 0.3, Display: 0.3},
		{Region: gb, AverageScore: -0.6, Display: -0.5},
	})
	require.NoError(t, err)
	decodePNG(t, data)
}

func TestRegionalScoreChartRejectsEmptyInput(t *testing.T) {
	r := NewRenderer()

	_, err := r.RegionalScoreChart(nil)
	assert.Error(t, err)
}
