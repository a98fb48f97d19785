package itinerary

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

// dayMarker matches lines that open a new day section: "Day 3:", "day 3 -",
// "**Day 3**" and similar. The generated text has no enforced schema, so the
// grammar stays deliberately loose.
var dayMarker = regexp.MustCompile(`(?i)^\s*(?:[*#]+\s*)?day\s+\d+`)

// parsePlanEntries splits free text into day-labeled entries in appearance
// order, numbering them from 1. Text with no recognizable markers becomes a
// single entry rather than a parse failure.
func parsePlanEntries(text string) []types.ItineraryDay {
	var entries []types.ItineraryDay
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(current, "\n"))
		current = nil
		if body == "" {
			return
		}
		entries = append(entries, types.ItineraryDay{
			DayIndex: len(entries) + 1,
			Text:     body,
		})
	}

	inDay := false
	for _, line := range strings.Split(text, "\n") {
		if dayMarker.MatchString(line) {
			flush()
			inDay = true
		}
		if inDay {
			current = append(current, line)
		}
	}
	flush()

	if len(entries) == 0 {
		return []types.ItineraryDay{{DayIndex: 1, Text: strings.TrimSpace(text)}}
	}
	return entries
}
