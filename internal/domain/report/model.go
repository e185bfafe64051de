// internal/domain/report/model.go

package report

import (
	"time"

	"brandpulse/internal/domain/sentiment"
)

// PlaceholderText is what a report section shows in place of a visual
// that could not be rendered. The assembler substitutes it rather than
// dropping the section or failing the export.
const PlaceholderText = "[chart unavailable - data could not be rendered]"

// Visual is one successfully rendered chart artifact
type Visual struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	PNG   []byte `json:"png"`
}

// VisualResult is the outcome of one render attempt. A failed render
// carries its error here so the failure is explicit at the assembly
// boundary instead of being swallowed at the call site.
type VisualResult struct {
	Name   string
	Title  string
	Visual *Visual
	Err    error
}

// Rendered wraps a successful render
func Rendered(v Visual) VisualResult {
	return VisualResult{Name: v.Name, Title: v.Title, Visual: &v}
}

// Failed records a render that produced no artifact
func Failed(name, title string, err error) VisualResult {
	return VisualResult{Name: name, Title: title, Err: err}
}

// VisualBlock is a visual slot inside an assembled section: either the
// artifact itself or its placeholder
type VisualBlock struct {
	Title       string `json:"title"`
	Present     bool   `json:"present"`
	PNG         []byte `json:"png,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Section is the per-topic portion of a report. The textual summary is
// always present; visuals are best-effort.
type Section struct {
	Topic    string                          `json:"topic"`
	Summary  sentiment.TopicSentimentSummary `json:"summary"`
	Dominant []sentiment.DominantCell        `json:"dominant,omitempty"`
	Scores   []sentiment.ScoreCell           `json:"scores,omitempty"`
	Visuals  []VisualBlock                   `json:"visuals"`
}

// Document is one assembled export artifact
type Document struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	GeneratedAt time.Time                `json:"generated_at"`
	Sections    []Section                `json:"sections"`
	Leaders     []sentiment.RegionLeader `json:"leaders,omitempty"`
	LeaderNote  string                   `json:"leader_note,omitempty"`
}
