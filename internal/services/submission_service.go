package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/campuspathway/leads-api/internal/models"
	"github.com/campuspathway/leads-api/internal/repository"
	apperrors "github.com/campuspathway/leads-api/pkg/errors"
	"github.com/campuspathway/leads-api/pkg/logger"
	"github.com/campuspathway/leads-api/pkg/metrics"
)

// SuccessMessage is the confirmation shown to the visitor after a
// submission is accepted.
const SuccessMessage = "Thank you for your enquiry! We will contact you shortly."

// SubmissionService owns the submission pipeline: validate, persist, then
// best-effort notify the administrator.
type SubmissionService struct {
	store    repository.SubmissionStore
	notifier NotificationDispatcher
}

// NewSubmissionService creates a new submission service instance
func NewSubmissionService(store repository.SubmissionStore, notifier NotificationDispatcher) *SubmissionService {
	return &SubmissionService{
		store:    store,
		notifier: notifier,
	}
}

// Submit validates and persists a form submission, then attempts the admin
// notification. Validation and storage failures are returned as typed errors
// for the handler to map onto 400/500; a notification failure only shows up
// as emailSent=false in an otherwise successful response.
func (s *SubmissionService) Submit(ctx context.Context, req *models.SubmitFormRequest) (*models.SubmitFormResponse, error) {
	sub, err := ValidateSubmission(req)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrMissingField):
			metrics.FormSubmissions.WithLabelValues("missing_field").Inc()
		case apperrors.Is(err, apperrors.ErrInvalidPhone):
			metrics.FormSubmissions.WithLabelValues("invalid_phone").Inc()
		}
		return nil, err
	}

	id, err := s.store.Insert(ctx, sub)
	if err != nil {
		metrics.FormSubmissions.WithLabelValues("storage_error").Inc()
		logger.Error("Failed to persist submission", zap.Error(err))
		return nil, err
	}

	// Best-effort side channel: the submission is already accepted, so the
	// dispatch outcome only affects the emailSent flag in the response.
	emailSent := s.notifier.Dispatch(ctx, sub)

	metrics.FormSubmissions.WithLabelValues("accepted").Inc()
	logger.Info("Submission accepted",
		zap.Int("id", id),
		zap.Bool("email_sent", emailSent))

	return &models.SubmitFormResponse{
		Success:      true,
		Message:      SuccessMessage,
		SubmissionID: id,
		EmailSent:    emailSent,
	}, nil
}

// ListRecent returns the most recent submissions, newest first.
func (s *SubmissionService) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	return s.store.ListRecent(ctx, limit)
}

// Ensure SubmissionService implements SubmissionServiceInterface
var _ SubmissionServiceInterface = (*SubmissionService)(nil)
