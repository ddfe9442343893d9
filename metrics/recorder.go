// Package metrics records operational measurements of the site: HTTP
// requests, Remote Content API calls, form outcomes and connected live
// carousel displays. Recorders can be combined with Multi.
// File: metrics/recorder.go
package metrics

import "time"

// Form outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// Recorder receives measurements. Implementations must be safe for
// concurrent use and must not block.
type Recorder interface {
	HTTPRequest(method, route string, status int, elapsed time.Duration)
	APICall(method, path string, status int, elapsed time.Duration)
	FormSubmission(form, outcome string)
	LiveDisplays(count int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) HTTPRequest(string, string, int, time.Duration) {}
func (Nop) APICall(string, string, int, time.Duration)     {}
func (Nop) FormSubmission(string, string)                  {}
func (Nop) LiveDisplays(int)                               {}

// Multi fans every measurement out to each recorder.
type Multi []Recorder

// NewMulti drops nil recorders. With none left it returns Nop.
func NewMulti(recorders ...Recorder) Recorder {
	var m Multi
	for _, r := range recorders {
		if r != nil {
			m = append(m, r)
		}
	}
	if len(m) == 0 {
		return Nop{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m Multi) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	for _, r := range m {
		r.HTTPRequest(method, route, status, elapsed)
	}
}

func (m Multi) APICall(method, path string, status int, elapsed time.Duration) {
	for _, r := range m {
		r.APICall(method, path, status, elapsed)
	}
}

func (m Multi) FormSubmission(form, outcome string) {
	for _, r := range m {
		r.FormSubmission(form, outcome)
	}
}

func (m Multi) LiveDisplays(count int) {
	for _, r := range m {
		r.LiveDisplays(count)
	}
}
