// File: services/form_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"cmv-site/logger"
	"cmv-site/metrics"
	"cmv-site/models"
)

// Form names used for guarding, logging and metrics.
const (
	FormVolunteer    = "volunteer"
	FormDonation     = "donation"
	FormRegistration = "registration"
)

// FormServiceInterface is what the form handlers call.
type FormServiceInterface interface {
	SubmitVolunteer(ctx context.Context, visitor string, req models.VolunteerRequest) error
	SubmitDonation(ctx context.Context, visitor string, req models.DonationRequest) error
	SubmitRegistration(ctx context.Context, visitor string, req models.Registration) error
}

// FormService validates a public form and posts it to the API, allowing a
// single in-flight submission per visitor and form.
type FormService struct {
	api     Submitter
	guard   *SubmissionGuard
	metrics metrics.Recorder
}

// NewFormService builds a service. A nil recorder discards metrics.
func NewFormService(api Submitter, guard *SubmissionGuard, rec metrics.Recorder) *FormService {
	if guard == nil {
		guard = NewSubmissionGuard()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &FormService{api: api, guard: guard, metrics: rec}
}

// SubmitVolunteer validates and posts a volunteer request.
func (s *FormService) SubmitVolunteer(ctx context.Context, visitor string, req models.VolunteerRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return s.submit(ctx, visitor, FormVolunteer, req.Validate, func() error {
		return s.api.SubmitVolunteer(ctx, req)
	})
}

// SubmitDonation validates and posts a donation request.
func (s *FormService) SubmitDonation(ctx context.Context, visitor string, req models.DonationRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.PAN = strings.ToUpper(strings.TrimSpace(req.PAN))
	return s.submit(ctx, visitor, FormDonation, req.Validate, func() error {
		return s.api.SubmitDonation(ctx, req)
	})
}

// SubmitRegistration validates and posts a CGCC registration.
func (s *FormService) SubmitRegistration(ctx context.Context, visitor string, req models.Registration) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return s.submit(ctx, visitor, FormRegistration, req.Validate, func() error {
		return s.api.SubmitRegistration(ctx, req)
	})
}

// submit holds the guard for the whole attempt: validation failures and
// API failures both release it.
func (s *FormService) submit(ctx context.Context, visitor, form string, validate func() models.ValidationErrors, send func() error) error {
	if !s.guard.TryAcquire(visitor, form) {
		s.metrics.FormSubmission(form, metrics.OutcomeDuplicate)
		return ErrSubmissionInProgress
	}
	defer s.guard.Release(visitor, form)

	if errs := validate(); len(errs) > 0 {
		s.metrics.FormSubmission(form, metrics.OutcomeInvalid)
		logger.Debug.Printf("FormService: %s from %s rejected: %v", form, visitor, errs)
		return errs
	}

	if err := send(); err != nil {
		s.metrics.FormSubmission(form, metrics.OutcomeFailed)
		if !errors.Is(err, context.Canceled) {
			logger.CaptureError("FormService."+form, err)
		}
		return err
	}

	s.metrics.FormSubmission(form, metrics.OutcomeSuccess)
	logger.Info.Printf("FormService: %s submitted by %s", form, visitor)
	return nil
}
