package domain

import "time"

// EventScope is the entity scope of organization events.
const EventScope = "events"

// Event is one organization event as listed by the admin views.
type Event struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Category  string    `json:"category" yaml:"category"`
	Date      time.Time `json:"date" yaml:"date"`
	Location  string    `json:"location,omitzero" yaml:"location"`
	Attendees int       `json:"attendees" yaml:"attendees"`
}
