package types

// ItineraryRequest asks for a day-by-day plan for one city.
type ItineraryRequest struct {
	City string `json:"city"`
	Days int    `json:"days"`
}

// ItineraryDay is one day-labeled entry parsed out of the generated text.
type ItineraryDay struct {
	DayIndex int    `json:"day_index"`
	Text     string `json:"text"`
}

// ItineraryPlan is the ordered sequence of entries parsed from a single
// backend response. Entries keep the order they appear in the source text.
type ItineraryPlan struct {
	City    string         `json:"city"`
	Days    int            `json:"days"`
	Entries []ItineraryDay `json:"entries"`
}
