package itinerary

import "fmt"

func generateItineraryPrompt(city string, days int) string {
	return fmt.Sprintf(`
        Create a %d-day itinerary for %s with one paragraph per day.
        Label each day on its own line, starting with "Day N:" followed by
        that day's plan. Do not add any text before Day 1.`, days, city)
}
