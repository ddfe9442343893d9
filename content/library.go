// Package content holds the static site content compiled into the binary:
// the About text, acharya profiles, activities and contact details. Long
// fields are written in Markdown and rendered once at load time.
// File: content/library.go
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"cmv-site/models"
)

//go:embed content.yaml
var defaultContent []byte

// About is the organisation introduction.
type About struct {
	Mission     string        `yaml:"mission"`
	History     string        `yaml:"history"`
	HistoryHTML template.HTML `yaml:"-"`
}

type document struct {
	About      About             `yaml:"about"`
	Acharyas   []models.Acharya  `yaml:"acharyas"`
	Activities []models.Activity `yaml:"activities"`
	Contact    models.Contact    `yaml:"contact"`
}

// Library is read-only after construction.
type Library struct {
	doc document
}

// Default parses the embedded content.
func Default() (*Library, error) {
	return Parse(defaultContent)
}

// MustDefault is Default that panics, for package-level wiring.
func MustDefault() *Library {
	lib, err := Default()
	if err != nil {
		panic(err)
	}
	return lib
}

// Parse decodes a YAML document and renders its Markdown fields.
func Parse(data []byte) (*Library, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var err error
	if doc.About.HistoryHTML, err = render(md, doc.About.History); err != nil {
		return nil, fmt.Errorf("render about: %w", err)
	}

	seen := map[string]bool{}
	for i := range doc.Acharyas {
		a := &doc.Acharyas[i]
		if a.ID == "" || seen["a:"+a.ID] {
			return nil, fmt.Errorf("acharya %q: missing or duplicate id", a.Name)
		}
		seen["a:"+a.ID] = true
		if a.HTML, err = render(md, a.Bio); err != nil {
			return nil, fmt.Errorf("render acharya %s: %w", a.ID, err)
		}
	}
	for i := range doc.Activities {
		a := &doc.Activities[i]
		if a.ID == "" || seen["v:"+a.ID] {
			return nil, fmt.Errorf("activity %q: missing or duplicate id", a.Name)
		}
		seen["v:"+a.ID] = true
		if a.HTML, err = render(md, a.Description); err != nil {
			return nil, fmt.Errorf("render activity %s: %w", a.ID, err)
		}
	}
	return &Library{doc: doc}, nil
}

// render converts trusted Markdown from the embedded file to HTML.
func render(md goldmark.Markdown, src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- compiled-in content
}

func (l *Library) About() About { return l.doc.About }

func (l *Library) Contact() models.Contact { return l.doc.Contact }

// Acharyas returns the profiles in file order.
func (l *Library) Acharyas() []models.Acharya {
	return append([]models.Acharya(nil), l.doc.Acharyas...)
}

// Activities returns the activities in file order.
func (l *Library) Activities() []models.Activity {
	return append([]models.Activity(nil), l.doc.Activities...)
}

// FindAcharya looks a profile up by id.
func (l *Library) FindAcharya(id string) (models.Acharya, bool) {
	for _, a := range l.doc.Acharyas {
		if a.ID == id {
			return a, true
		}
	}
	return models.Acharya{}, false
}

// FindActivity looks an activity up by id.
func (l *Library) FindActivity(id string) (models.Activity, bool) {
	for _, a := range l.doc.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return models.Activity{}, false
}
