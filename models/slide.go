// Package models defines data structures used across the application.
// File: models/slide.go
package models

import "encoding/json"

// ----------------------- carousel model -----------------------

// Slide is one entry in the carousel's displayed sequence.
type Slide struct {
	ID          string `json:"id,omitempty"`
	Image       string `json:"image"`       // hosted image URL
	Title       string `json:"title"`       // caption heading
	Description string `json:"description"` // caption body
}

// GetID returns the record identifier.
func (s Slide) GetID() string { return s.ID }

// UnmarshalJSON accepts either "id" or "_id" from the API.
func (s *Slide) UnmarshalJSON(data []byte) error {
	type alias Slide
	var raw struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Slide(raw.alias)
	if s.ID == "" {
		s.ID = raw.MongoID
	}
	return nil
}

// PlaceholderSlide is rendered when the carousel has nothing to show.
var PlaceholderSlide = Slide{
	Image:       "/static/images/placeholder.svg",
	Title:       "Chinmaya Mission Vasai",
	Description: "Slides will appear here soon.",
}
