// File: apiclient/resource.go
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"cmv-site/models"
)

// Resource is a typed view of one API collection supporting list, create
// and delete.
type Resource[T any] struct {
	client     *Client
	collection string
	// encode builds the create payload; nil sends the record as-is.
	encode func(T) interface{}
}

// NewResource binds collection to c.
func NewResource[T any](c *Client, collection string, encode func(T) interface{}) *Resource[T] {
	return &Resource[T]{client: c, collection: collection, encode: encode}
}

// Collection returns the collection path.
func (r *Resource[T]) Collection() string { return r.collection }

// List fetches the whole collection. A null or empty body yields an empty
// slice. Both a bare array and a {"data": [...]} envelope are accepted.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	resp, err := r.client.do(ctx, http.MethodGet, r.collection, nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := decode(resp, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.collection, err)
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.collection, err)
	}
	return items, nil
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	items := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return items, nil
	}
	if raw[0] == '{' {
		var env struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, err
		}
		if env.Data != nil {
			items = env.Data
		}
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create posts item and returns the record the API stored, bare or inside a
// {"data": {...}} envelope. A reply without an id (including an empty body)
// fails with ErrMissingID.
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var payload interface{} = item
	if r.encode != nil {
		payload = r.encode(item)
	}
	resp, err := r.client.do(ctx, http.MethodPost, r.collection, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	var raw json.RawMessage
	if err := decode(resp, &raw); err != nil {
		return item, fmt.Errorf("decode created %s: %w", r.collection, err)
	}
	created, err := decodeRecord(raw, item)
	if err != nil {
		return item, fmt.Errorf("decode created %s: %w", r.collection, err)
	}
	if rec, ok := any(created).(interface{ GetID() string }); ok && rec.GetID() == "" {
		return created, fmt.Errorf("create %s: %w", r.collection, ErrMissingID)
	}
	return created, nil
}

func decodeRecord[T any](raw json.RawMessage, fallback T) (T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fallback, err
		}
		if len(env.Data) > 0 && env.Data[0] == '{' {
			raw = env.Data
		}
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fallback, err
	}
	return out, nil
}

// Delete removes the record with the given id.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete %s: empty id", r.collection)
	}
	resp, err := r.client.do(ctx, http.MethodDelete, r.collection+"/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// ------------------- collections -------------------

const (
	collectionCarousel      = "carousel-items"
	collectionDonations     = "donations"
	collectionVolunteer     = "volunteer"
	collectionRegistrations = "cgcc2025/registrations"
	pathExportCSV           = "cgcc2025/export-csv"
	pathUploadImage         = "upload-image"
)

// CarouselItems is the carousel-items collection.
func (c *Client) CarouselItems() *Resource[models.Slide] {
	return NewResource[models.Slide](c, collectionCarousel, nil)
}

// Events is the upcoming-events or featured-events collection. Records are
// encoded with the name key that collection expects.
func (c *Client) Events(kind models.EventKind) *Resource[models.Event] {
	return NewResource(c, kind.Collection(), func(e models.Event) interface{} {
		return e.WirePayload(kind)
	})
}

// Registrations is the CGCC 2025 registrations collection.
func (c *Client) Registrations() *Resource[models.Registration] {
	return NewResource[models.Registration](c, collectionRegistrations, nil)
}

// SubmitDonation posts a donation request.
func (c *Client) SubmitDonation(ctx context.Context, d models.DonationRequest) error {
	return c.submit(ctx, collectionDonations, d)
}

// SubmitVolunteer posts a volunteer request.
func (c *Client) SubmitVolunteer(ctx context.Context, v models.VolunteerRequest) error {
	return c.submit(ctx, collectionVolunteer, v)
}

// SubmitRegistration posts a CGCC registration from the public form.
func (c *Client) SubmitRegistration(ctx context.Context, r models.Registration) error {
	return c.submit(ctx, collectionRegistrations, r)
}

func (c *Client) submit(ctx context.Context, collection string, payload interface{}) error {
	resp, err := c.do(ctx, http.MethodPost, collection, payload)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
