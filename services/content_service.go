// File: services/content_service.go
package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"cmv-site/logger"
	"cmv-site/models"
)

const (
	cacheKeySlides = "slides"
	cacheKeyEvents = "events:"
)

// ContentServiceInterface is what the public pages read.
type ContentServiceInterface interface {
	Slides(ctx context.Context) ([]models.Slide, error)
	Events(ctx context.Context, kind models.EventKind) ([]models.Event, error)
	Invalidate()
}

// ContentService reads carousel items and events for the public pages and
// caches successful reads for ttl. A failed read degrades to an empty list
// and is not cached.
type ContentService struct {
	slides Lister[models.Slide]
	events map[models.EventKind]Lister[models.Event]
	cache  *cache.Cache
	ttl    time.Duration
}

// NewContentService caches reads for ttl; a non-positive ttl disables caching.
func NewContentService(slides Lister[models.Slide], upcoming, featured Lister[models.Event], ttl time.Duration) *ContentService {
	return &ContentService{
		slides: slides,
		events: map[models.EventKind]Lister[models.Event]{
			models.UpcomingEvents: upcoming,
			models.FeaturedEvents: featured,
		},
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Slides returns the carousel sequence. On error the slice is empty, never nil.
func (s *ContentService) Slides(ctx context.Context) ([]models.Slide, error) {
	return cachedList(ctx, s, cacheKeySlides, s.slides)
}

// Events returns one event collection. On error the slice is empty.
func (s *ContentService) Events(ctx context.Context, kind models.EventKind) ([]models.Event, error) {
	lister, ok := s.events[kind]
	if !ok || lister == nil {
		return []models.Event{}, nil
	}
	return cachedList(ctx, s, cacheKeyEvents+string(kind), lister)
}

// Invalidate drops every cached read. Admin writes call it.
func (s *ContentService) Invalidate() {
	s.cache.Flush()
}

// SetSlides replaces the cached carousel sequence after an admin change.
func (s *ContentService) SetSlides(slides []models.Slide) {
	if s.ttl > 0 {
		s.cache.SetDefault(cacheKeySlides, clone(slides))
	}
}

func cachedList[T any](ctx context.Context, s *ContentService, key string, src Lister[T]) ([]T, error) {
	if v, ok := s.cache.Get(key); ok {
		return clone(v.([]T)), nil
	}
	items, err := src.List(ctx)
	if err != nil {
		logger.Warn.Printf("ContentService: loading %s failed, showing nothing: %v", key, err)
		return []T{}, err
	}
	if s.ttl > 0 {
		s.cache.SetDefault(key, clone(items))
	}
	return clone(items), nil
}

// clone copies items into a non-nil slice.
func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
