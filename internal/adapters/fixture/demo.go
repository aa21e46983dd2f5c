package fixture

import (
	"fmt"
	"time"

	"go.trai.ch/tally/internal/core/domain"
)

var (
	demoCategories = []string{"workshop", "meetup", "conference", "social"}
	demoTopics     = []string{"Go", "Kubernetes", "Observability", "Design", "Security", "Data"}
	demoPlaces     = []string{"Berlin", "Lisbon", "Remote", "Oslo", "Vienna"}
)

// Demo returns n deterministic events, one per day starting at start.
func Demo(n int, start time.Time) []domain.Event {
	events := make([]domain.Event, 0, n)
	for i := range n {
		events = append(events, domain.Event{
			ID:        fmt.Sprintf("evt-%04d", i+1),
			Title:     fmt.Sprintf("%s %s #%d", demoTopics[i%len(demoTopics)], demoCategories[i%len(demoCategories)], i/len(demoTopics)+1),
			Category:  demoCategories[i%len(demoCategories)],
			Date:      start.AddDate(0, 0, i),
			Location:  demoPlaces[i%len(demoPlaces)],
			Attendees: (i*37)%120 + 5,
		})
	}
	return events
}
