package repository

import (
	"context"

	"github.com/campuspathway/leads-api/internal/models"
)

// SubmissionStore defines the persistence contract for lead submissions
type SubmissionStore interface {
	// Insert persists a new submission with email_sent = false and a
	// server-assigned created_at, returning the assigned id
	Insert(ctx context.Context, sub *models.Submission) (int, error)

	// MarkEmailSent idempotently sets email_sent = true for an existing record
	MarkEmailSent(ctx context.Context, id int) error

	// ListRecent returns submissions ordered by created_at descending,
	// capped at limit (at most 100)
	ListRecent(ctx context.Context, limit int) ([]*models.Submission, error)
}
