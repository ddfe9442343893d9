// File: models/event.go
package models

import (
	"encoding/json"
	"fmt"
)

// ------------------------ event model -----------------------

// EventKind selects one of the two event collections kept by the API.
type EventKind string

const (
	UpcomingEvents EventKind = "upcoming"
	FeaturedEvents EventKind = "featured"
)

// ParseEventKind validates a kind taken from a URL path.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case UpcomingEvents, FeaturedEvents:
		return EventKind(s), nil
	}
	return "", fmt.Errorf("unknown event kind %q", s)
}

// Collection is the API collection path for the kind.
func (k EventKind) Collection() string {
	return string(k) + "-events"
}

// Title is the heading used on pages and admin screens.
func (k EventKind) Title() string {
	if k == FeaturedEvents {
		return "Featured Events"
	}
	return "Upcoming Events"
}

// Event is the single record shape for upcoming and featured events.
type Event struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Schedule    string   `json:"schedule"`   // free text, e.g. "Every Sunday, 7-8 PM"
	Highlights  []string `json:"highlights"` // ordered
	Contact     string   `json:"contact"`
}

// GetID returns the record identifier.
func (e Event) GetID() string { return e.ID }

// UnmarshalJSON accepts "eventName" as well as "name", and "_id" as well as "id".
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	var raw struct {
		alias
		EventName string `json:"eventName"`
		MongoID   string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Event(raw.alias)
	if e.Name == "" {
		e.Name = raw.EventName
	}
	if e.ID == "" {
		e.ID = raw.MongoID
	}
	return nil
}

// WirePayload is the body sent to the API when creating an event of kind k.
// Upcoming events are stored under "eventName", featured ones under "name".
func (e Event) WirePayload(k EventKind) map[string]interface{} {
	nameKey := "name"
	if k == UpcomingEvents {
		nameKey = "eventName"
	}
	highlights := e.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return map[string]interface{}{
		nameKey:       e.Name,
		"image":       e.Image,
		"description": e.Description,
		"schedule":    e.Schedule,
		"highlights":  highlights,
		"contact":     e.Contact,
	}
}
