// internal/service/report/assembler.go

package report

import (
	"time"

	"github.com/google/uuid"

	"brandpulse/internal/domain/report"
	"brandpulse/internal/domain/sentiment"
	"brandpulse/internal/logger"
)

// visualSlot is one chart position every topic section carries.
// Sections always render all slots; a slot without a usable artifact
// shows the placeholder instead.
type visualSlot struct {
	name  string
	title string
}

var sectionSlots = []visualSlot{
	{name: "sentiment-distribution", title: "Sentiment Distribution"},
	{name: "search-interest", title: "Search Interest"},
	{name: "regional-scores", title: "Regional Sentiment Scores"},
}

// TopicInput bundles everything the assembler needs for one topic
// section: the summary (always shown) and whatever visuals the caller
// managed to render.
type TopicInput struct {
	Topic    string
	Summary  sentiment.TopicSentimentSummary
	Dominant []sentiment.DominantCell
	Scores   []sentiment.ScoreCell
	Visuals  []report.VisualResult
}

// AssembleReport composes one export document from per-topic inputs.
// It never fails: every topic gets its textual section, and any visual
// that is absent or failed to render is replaced by a fixed,
// clearly-labeled placeholder.
func AssembleReport(title string, topics []TopicInput, leaders []sentiment.RegionLeader, leaderNote string) report.Document {
	doc := report.Document{
		ID:          uuid.New().String(),
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		Leaders:     leaders,
		LeaderNote:  leaderNote,
	}

	for _, input := range topics {
		section := report.Section{
			Topic:    input.Topic,
			Summary:  input.Summary,
			Dominant: input.Dominant,
			Scores:   input.Scores,
		}

		byName := make(map[string]report.VisualResult, len(input.Visuals))
		for _, vr := range input.Visuals {
			byName[vr.Name] = vr
		}

		for _, slot := range sectionSlots {
			section.Visuals = append(section.Visuals, blockFor(input.Topic, slot, byName))
		}

		// Extra visuals beyond the canonical slots, such as a price
		// history chart, keep their supplied title and degrade the
		// same way.
		for _, vr := range input.Visuals {
			if isSlotName(vr.Name) {
				continue
			}
			section.Visuals = append(section.Visuals,
				blockFor(input.Topic, visualSlot{name: vr.Name, title: vr.Title}, byName))
		}

		doc.Sections = append(doc.Sections, section)
	}

	return doc
}

func isSlotName(name string) bool {
	for _, slot := range sectionSlots {
		if slot.name == name {
			return true
		}
	}
	return false
}

// blockFor resolves one visual slot to either its artifact or the placeholder
func blockFor(topic string, slot visualSlot, results map[string]report.VisualResult) report.VisualBlock {
	vr, ok := results[slot.name]
	if !ok {
		return placeholderBlock(slot)
	}
	if vr.Err != nil || vr.Visual == nil {
		if vr.Err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"topic":  topic,
				"visual": slot.name,
			}).WithError(vr.Err).Warn("visual failed to render, substituting placeholder")
		}
		return placeholderBlock(slot)
	}

	return report.VisualBlock{
		Title:   slot.title,
		Present: true,
		PNG:     vr.Visual.PNG,
	}
}

func placeholderBlock(slot visualSlot) report.VisualBlock {
	return report.VisualBlock{
		Title:       slot.title,
		Present:     false,
		Placeholder: report.PlaceholderText,
	}
}
