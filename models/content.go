// File: models/content.go
package models

import "html/template"

// Acharya is a teacher of the mission, compiled into the binary.
type Acharya struct {
	ID    string        `yaml:"id"`
	Name  string        `yaml:"name"`
	Title string        `yaml:"title"`
	Image string        `yaml:"image"`
	Bio   string        `yaml:"bio"` // markdown source
	HTML  template.HTML `yaml:"-"`   // rendered Bio
}

// GetID returns the record identifier.
func (a Acharya) GetID() string { return a.ID }

// Activity is a regular programme run by the centre.
type Activity struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Image       string        `yaml:"image"`
	Schedule    string        `yaml:"schedule"`
	Audience    string        `yaml:"audience"`
	Summary     string        `yaml:"summary"`
	Description string        `yaml:"description"` // markdown source
	HTML        template.HTML `yaml:"-"`
}

// GetID returns the record identifier.
func (a Activity) GetID() string { return a.ID }

// Contact holds the centre's address block and embeds.
type Contact struct {
	Address []string `yaml:"address"`
	Phone   string   `yaml:"phone"`
	Email   string   `yaml:"email"`
	Hours   string   `yaml:"hours"`
}
