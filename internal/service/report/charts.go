// internal/service/report/charts.go

package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"brandpulse/internal/domain/sentiment"
)

// Chart colors follow the diverging sentiment palette: green for
// positive, gray for neutral, red for negative.
var (
	chartBackground = color.RGBA{R: 250, G: 250, B: 252, A: 255}
	chartAxis       = color.RGBA{R: 180, G: 180, B: 188, A: 255}
	colorPositive   = color.RGBA{R: 60, G: 200, B: 130, A: 255}
	colorNeutral    = color.RGBA{R: 150, G: 150, B: 158, A: 255}
	colorNegative   = color.RGBA{R: 230, G: 80, B: 80, A: 255}
)

const (
	chartWidth  = 480
	chartHeight = 180
	chartMargin = 20
)

// Renderer rasterizes summary data into PNG artifacts. Every method
// returns an error rather than a partial image; callers convert errors
// to absent visuals before assembly.
type Renderer struct{}

// NewRenderer creates a chart renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// DistributionChart renders the three-category percentage split as
// horizontal bars.
func (r *Renderer) DistributionChart(summary sentiment.TopicSentimentSummary) ([]byte, error) {
	if summary.SampleSize == 0 {
		return nil, fmt.Errorf("no samples to chart")
	}

	img := newCanvas()
	bars := []struct {
		pct float64
		col color.RGBA
	}{
		{summary.PositivePct, colorPositive},
		{summary.NeutralPct, colorNeutral},
		{summary.NegativePct, colorNegative},
	}

	barHeight := (chartHeight - 2*chartMargin) / len(bars)
	maxBarWidth := chartWidth - 2*chartMargin
	for i, bar := range bars {
		w := int(bar.pct / 100 * float64(maxBarWidth))
		y0 := chartMargin + i*barHeight + 4
		fillRect(img, chartMargin, y0, chartMargin+w, y0+barHeight-8, bar.col)
	}
	vline(img, chartMargin, chartMargin, chartHeight-chartMargin, chartAxis)

	return encode(img)
}

// Sparkline renders a search-interest time series as a line chart
func (r *Renderer) Sparkline(series []float64) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("series too short to chart: %d points", len(series))
	}

	lo, hi := series[0], series[0]
	for _, v := range series {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	img := newCanvas()
	plotW := float64(chartWidth - 2*chartMargin)
	plotH := float64(chartHeight - 2*chartMargin)

	toY := func(v float64) int {
		return chartHeight - chartMargin - int((v-lo)/(hi-lo)*plotH)
	}
	toX := func(i int) int {
		return chartMargin + int(float64(i)/float64(len(series)-1)*plotW)
	}

	for i := 1; i < len(series); i++ {
		drawSegment(img, toX(i-1), toY(series[i-1]), toX(i), toY(series[i]), colorPositive)
	}
	hline(img, chartMargin, chartWidth-chartMargin, chartHeight-chartMargin, chartAxis)

	return encode(img)
}

// RegionalScoreChart renders per-region average scores as diverging
// bars around a zero center line, using the clamped display values.
func (r *Renderer) RegionalScoreChart(cells []sentiment.ScoreCell) ([]byte, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("no regional scores to chart")
	}

	img := newCanvas()
	center := chartWidth / 2
	halfSpan := float64(chartWidth/2 - chartMargin)
	barHeight := (chartHeight - 2*chartMargin) / len(cells)
	if barHeight < 4 {
		barHeight = 4
	}

	for i, cell := range cells {
		// Display values are bounded to [-0.5, 0.5]; scale that band
		// across the half width.
		w := int(cell.Display / 0.5 * halfSpan)
		y0 := chartMargin + i*barHeight + 2
		y1 := y0 + barHeight - 4
		if w >= 0 {
			fillRect(img, center, y0, center+w, y1, colorPositive)
		} else {
			fillRect(img, center+w, y0, center, y1, colorNegative)
		}
	}
	vline(img, center, chartMargin, chartHeight-chartMargin, chartAxis)

	return encode(img)
}

func newCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	fillRect(img, 0, 0, chartWidth, chartHeight, chartBackground)
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

// drawSegment draws a line by stepping the longer axis
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		img.SetRGBA(x0, y0, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func encode(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding chart: %w", err)
	}
	return buf.Bytes(), nil
}
