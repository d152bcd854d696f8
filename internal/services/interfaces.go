package services

import (
	"context"

	"github.com/campuspathway/leads-api/internal/models"
)

// SubmissionServiceInterface defines the interface for submission operations
type SubmissionServiceInterface interface {
	Submit(ctx context.Context, req *models.SubmitFormRequest) (*models.SubmitFormResponse, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Submission, error)
}

// NotificationDispatcher attempts a best-effort administrator notification
// for a persisted submission and reports whether delivery succeeded.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, sub *models.Submission) bool
}
