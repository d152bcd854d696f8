package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campuspathway/leads-api/internal/models"
	"github.com/campuspathway/leads-api/internal/repository"
	apperrors "github.com/campuspathway/leads-api/pkg/errors"
	"github.com/campuspathway/leads-api/pkg/logger"
	"github.com/campuspathway/leads-api/pkg/mailer"
	"github.com/campuspathway/leads-api/pkg/metrics"
)

// receiptLocation localizes the receipt timestamp in the notification body.
// The site's audience is in India; fall back to server time if tzdata is
// missing on the host.
var receiptLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.Local
	}
	return loc
}()

// NotificationService emails the administrator about new lead submissions.
// Dispatch is best-effort: a failure is logged and reported to the caller
// but never fails the submission that triggered it.
type NotificationService struct {
	mailer     mailer.Sender
	store      repository.SubmissionStore
	adminEmail string
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(sender mailer.Sender, store repository.SubmissionStore, adminEmail string) *NotificationService {
	return &NotificationService{
		mailer:     sender,
		store:      store,
		adminEmail: adminEmail,
	}
}

// Dispatch attempts to notify the administrator about a persisted submission
// and returns whether delivery succeeded. When the mail transport or the
// administrator address is not configured the dispatch is silently skipped:
// notification is a configuration-gated capability, not an error.
func (s *NotificationService) Dispatch(ctx context.Context, sub *models.Submission) bool {
	if s.adminEmail == "" || !s.mailer.Enabled() {
		metrics.EmailNotifications.WithLabelValues("skipped").Inc()
		logger.Debug("Notification skipped: mail transport not configured",
			zap.Int("submission_id", sub.ID))
		return false
	}

	subject := fmt.Sprintf("New enquiry from %s", sub.FullName)
	body := formatNotification(sub)

	if err := s.mailer.Send(s.adminEmail, subject, body); err != nil {
		metrics.EmailNotifications.WithLabelValues("failed").Inc()
		logger.Error("Failed to send notification email",
			zap.Error(apperrors.NotificationError(err)),
			zap.Int("submission_id", sub.ID))
		return false
	}

	// The flag update is a separate write from the insert; if it fails the
	// email was still delivered, so delivery success is reported regardless
	// and email_sent may read false until a retry.
	if err := s.store.MarkEmailSent(ctx, sub.ID); err != nil {
		logger.Error("Failed to mark submission as notified",
			zap.Error(err),
			zap.Int("submission_id", sub.ID))
	} else {
		sub.EmailSent = true
	}

	metrics.EmailNotifications.WithLabelValues("sent").Inc()
	logger.Info("Notification email sent",
		zap.Int("submission_id", sub.ID),
		zap.String("to", s.adminEmail))

	return true
}

// formatNotification renders the plain-text notification body.
func formatNotification(sub *models.Submission) string {
	city := "Not provided"
	if sub.City != nil {
		city = *sub.City
	}
	course := "Not selected"
	if sub.InterestedCourse != nil {
		course = *sub.InterestedCourse
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New lead submission #%d\n\n", sub.ID)
	fmt.Fprintf(&b, "Name: %s\n", sub.FullName)
	fmt.Fprintf(&b, "Contact Number: %s\n", sub.ContactNumber)
	fmt.Fprintf(&b, "City: %s\n", city)
	fmt.Fprintf(&b, "Interested Course: %s\n", course)
	if sub.Message != nil {
		fmt.Fprintf(&b, "Message: %s\n", *sub.Message)
	}
	fmt.Fprintf(&b, "\nReceived: %s\n", sub.CreatedAt.In(receiptLocation).Format("02 Jan 2006, 03:04 PM MST"))
	return b.String()
}

// Ensure NotificationService implements NotificationDispatcher
var _ NotificationDispatcher = (*NotificationService)(nil)
