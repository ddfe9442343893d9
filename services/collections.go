// Package services holds the application logic between the HTTP layer and
// the Remote Content API: cached public content, admin collections, form
// submission with a double-submit guard, and the donation QR code.
// File: services/collections.go
package services

import (
	"context"

	"cmv-site/models"
)

// Lister fetches a whole collection.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Collection is a remote collection supporting list, create and delete.
// *apiclient.Resource satisfies it.
type Collection[T any] interface {
	Lister[T]
	Create(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Identified records expose their API id.
type Identified interface {
	GetID() string
}

// Submitter posts the public forms.
type Submitter interface {
	SubmitDonation(ctx context.Context, d models.DonationRequest) error
	SubmitVolunteer(ctx context.Context, v models.VolunteerRequest) error
	SubmitRegistration(ctx context.Context, r models.Registration) error
}
