// Package modal holds the dialog layer used by the content pages: one
// overlay per page instance showing the details of a selected record.
// File: modal/modal.go
package modal

import "sync"

// Dialog is a modal overlay bound to a record of type T. The zero value is
// a hidden dialog. A Dialog is safe for concurrent use.
type Dialog[T any] struct {
	mu      sync.RWMutex
	visible bool
	record  *T
}

// Show opens the dialog with a copy of record, replacing any record already
// shown.
func (d *Dialog[T]) Show(record T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := record
	d.record = &r
	d.visible = true
}

// Close hides the dialog and clears its record. Closing a hidden dialog is a
// no-op.
func (d *Dialog[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = false
	d.record = nil
}

// Visible reports whether the overlay is shown.
func (d *Dialog[T]) Visible() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.visible
}

// Content returns the shown record, or false when the dialog is hidden.
func (d *Dialog[T]) Content() (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var zero T
	if !d.visible || d.record == nil {
		return zero, false
	}
	return *d.record, true
}

// View is the template payload for a rendered dialog.
type View[T any] struct {
	Open   bool
	Record T
	// CloseURL is where the close button and the overlay link to.
	CloseURL string
}

// Render produces the template view for the dialog.
func (d *Dialog[T]) Render(closeURL string) View[T] {
	rec, ok := d.Content()
	return View[T]{Open: ok, Record: rec, CloseURL: closeURL}
}

// Select resolves id through find and opens the dialog when it matches.
// An empty or unknown id closes the dialog. It reports whether a record is
// shown afterwards.
func Select[T any](d *Dialog[T], id string, find func(string) (T, bool)) bool {
	if id == "" {
		d.Close()
		return false
	}
	rec, ok := find(id)
	if !ok {
		d.Close()
		return false
	}
	d.Show(rec)
	return true
}
