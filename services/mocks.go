// File: services/mocks.go
package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"cmv-site/models"
)

// ensure the mocks implement their interfaces
var (
	_ Submitter                = (*MockSubmitter)(nil)
	_ Collection[models.Slide] = (*MockCollection[models.Slide])(nil)
	_ Collection[models.Event] = (*MockCollection[models.Event])(nil)
	_ CSVSource                = (*MockCSVSource)(nil)
	_ ContentServiceInterface  = (*MockContentService)(nil)
	_ FormServiceInterface     = (*MockFormService)(nil)
)

// MockSubmitter is a testify mock of the API's form endpoints.
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitDonation(ctx context.Context, d models.DonationRequest) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockSubmitter) SubmitVolunteer(ctx context.Context, v models.VolunteerRequest) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockSubmitter) SubmitRegistration(ctx context.Context, r models.Registration) error {
	return m.Called(ctx, r).Error(0)
}

// MockCollection is a testify mock of a remote collection.
type MockCollection[T any] struct {
	mock.Mock
}

func (m *MockCollection[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]T)
	return items, args.Error(1)
}

func (m *MockCollection[T]) Create(ctx context.Context, item T) (T, error) {
	args := m.Called(ctx, item)
	created, _ := args.Get(0).(T)
	return created, args.Error(1)
}

func (m *MockCollection[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockCSVSource is a testify mock of the registrations export.
type MockCSVSource struct {
	mock.Mock
}

func (m *MockCSVSource) ExportRegistrationsCSV(ctx context.Context) (io.ReadCloser, error) {
	args := m.Called(ctx)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

// MockContentService is a testify mock used by controller tests.
type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Slides(ctx context.Context) ([]models.Slide, error) {
	args := m.Called(ctx)
	slides, _ := args.Get(0).([]models.Slide)
	return slides, args.Error(1)
}

func (m *MockContentService) Events(ctx context.Context, kind models.EventKind) ([]models.Event, error) {
	args := m.Called(ctx, kind)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *MockContentService) Invalidate() {
	m.Called()
}

// MockFormService is a testify mock used by controller tests.
type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) SubmitVolunteer(ctx context.Context, visitor string, req models.VolunteerRequest) error {
	return m.Called(ctx, visitor, req).Error(0)
}

func (m *MockFormService) SubmitDonation(ctx context.Context, visitor string, req models.DonationRequest) error {
	return m.Called(ctx, visitor, req).Error(0)
}

func (m *MockFormService) SubmitRegistration(ctx context.Context, visitor string, req models.Registration) error {
	return m.Called(ctx, visitor, req).Error(0)
}
