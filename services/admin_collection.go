// File: services/admin_collection.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cmv-site/logger"
)

// ErrImageRequired is returned when a record that needs an image is
// submitted without one.
var ErrImageRequired = errors.New("an image file is required")

// AdminCollection is the in-memory list an admin screen works on, kept in
// step with one remote collection. Mutations only touch the list after the
// remote call succeeds.
type AdminCollection[T Identified] struct {
	name   string
	remote Collection[T]

	mu    sync.RWMutex
	items []T
	// onChange runs after every successful mutation or load, with a copy.
	onChange func([]T)
}

// NewAdminCollection wraps remote. name is used in log lines.
func NewAdminCollection[T Identified](name string, remote Collection[T]) *AdminCollection[T] {
	return &AdminCollection[T]{name: name, remote: remote, items: []T{}}
}

// OnChange registers fn to receive the list after each change.
func (a *AdminCollection[T]) OnChange(fn func([]T)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// Items returns a copy of the current list.
func (a *AdminCollection[T]) Items() []T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return clone(a.items)
}

// Load replaces the list with the remote collection. On failure the list
// becomes empty and the error is returned for display.
func (a *AdminCollection[T]) Load(ctx context.Context) ([]T, error) {
	items, err := a.remote.List(ctx)
	a.mu.Lock()
	if err != nil {
		a.items = []T{}
		a.mu.Unlock()
		logger.Error.Printf("AdminCollection[%s].Load: %v", a.name, err)
		return []T{}, fmt.Errorf("load %s: %w", a.name, err)
	}
	a.items = clone(items)
	out, notify := clone(a.items), a.onChange
	a.mu.Unlock()

	logger.Debug.Printf("AdminCollection[%s].Load: %d records", a.name, len(out))
	if notify != nil {
		notify(clone(out))
	}
	return out, nil
}

// Create stores item remotely and appends the record the API returned.
func (a *AdminCollection[T]) Create(ctx context.Context, item T) (T, error) {
	created, err := a.remote.Create(ctx, item)
	if err != nil {
		logger.Error.Printf("AdminCollection[%s].Create: %v", a.name, err)
		var zero T
		return zero, fmt.Errorf("create %s: %w", a.name, err)
	}

	a.mu.Lock()
	a.items = append(a.items, created)
	out, notify := clone(a.items), a.onChange
	a.mu.Unlock()

	logger.Info.Printf("AdminCollection[%s].Create: added %s", a.name, created.GetID())
	if notify != nil {
		notify(out)
	}
	return created, nil
}

// Delete removes id remotely, then from the list. An id that is not in the
// list leaves the list untouched whatever the remote answers; a remote
// failure leaves the list intact.
func (a *AdminCollection[T]) Delete(ctx context.Context, id string) error {
	if err := a.remote.Delete(ctx, id); err != nil {
		logger.Error.Printf("AdminCollection[%s].Delete(%s): %v", a.name, id, err)
		return fmt.Errorf("delete %s %s: %w", a.name, id, err)
	}

	a.mu.Lock()
	kept := a.items[:0:0]
	for _, it := range a.items {
		if it.GetID() != id {
			kept = append(kept, it)
		}
	}
	removed := len(kept) != len(a.items)
	a.items = kept
	out, notify := clone(a.items), a.onChange
	a.mu.Unlock()

	if !removed {
		logger.Warn.Printf("AdminCollection[%s].Delete: %s was not in the list", a.name, id)
		return nil
	}
	logger.Info.Printf("AdminCollection[%s].Delete: removed %s", a.name, id)
	if notify != nil {
		notify(out)
	}
	return nil
}
