package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/campuspathway/leads-api/internal/models"
	"github.com/campuspathway/leads-api/internal/services"
	apperrors "github.com/campuspathway/leads-api/pkg/errors"
	"github.com/campuspathway/leads-api/pkg/logger"
)

func sampleSubmission() *models.Submission {
	city := "Pune"
	course := "MBA"
	return &models.Submission{
		ID:               42,
		FullName:         "Asha Rao",
		ContactNumber:    "9876543210",
		City:             &city,
		InterestedCourse: &course,
		CreatedAt:        time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC),
	}
}

func TestNotificationService_Dispatch(t *testing.T) {
	mockSender := new(MockSender)
	mockStore := new(MockSubmissionStore)
	service := services.NewNotificationService(mockSender, mockStore, "admin@campuspathway.in")
	ctx := context.Background()
	sub := sampleSubmission()

	var sentBody string
	mockSender.On("Enabled").Return(true).Once()
	mockSender.On("Send", "admin@campuspathway.in", "New enquiry from Asha Rao", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			sentBody = args.String(2)
		}).Return(nil).Once()
	mockStore.On("MarkEmailSent", ctx, 42).Return(nil).Once()

	sent := service.Dispatch(ctx, sub)
	assert.True(t, sent)
	assert.True(t, sub.EmailSent)

	assert.Contains(t, sentBody, "Name: Asha Rao")
	assert.Contains(t, sentBody, "Contact Number: 9876543210")
	assert.Contains(t, sentBody, "City: Pune")
	assert.Contains(t, sentBody, "Interested Course: MBA")

	mockSender.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestNotificationService_Dispatch_OptionalFallbacks(t *testing.T) {
	mockSender := new(MockSender)
	mockStore := new(MockSubmissionStore)
	service := services.NewNotificationService(mockSender, mockStore, "admin@campuspathway.in")
	ctx := context.Background()

	sub := sampleSubmission()
	sub.City = nil
	sub.InterestedCourse = nil
	sub.Message = nil

	var sentBody string
	mockSender.On("Enabled").Return(true).Once()
	mockSender.On("Send", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			sentBody = args.String(2)
		}).Return(nil).Once()
	mockStore.On("MarkEmailSent", ctx, 42).Return(nil).Once()

	assert.True(t, service.Dispatch(ctx, sub))
	assert.Contains(t, sentBody, "City: Not provided")
	assert.Contains(t, sentBody, "Interested Course: Not selected")
	assert.NotContains(t, sentBody, "Message:")
}

func TestNotificationService_Dispatch_SkippedWhenUnconfigured(t *testing.T) {
	t.Run("no admin email", func(t *testing.T) {
		mockSender := new(MockSender)
		mockStore := new(MockSubmissionStore)
		service := services.NewNotificationService(mockSender, mockStore, "")

		assert.False(t, service.Dispatch(context.Background(), sampleSubmission()))
		mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		mockStore.AssertNotCalled(t, "MarkEmailSent", mock.Anything, mock.Anything)
	})

	t.Run("transport disabled", func(t *testing.T) {
		mockSender := new(MockSender)
		mockStore := new(MockSubmissionStore)
		service := services.NewNotificationService(mockSender, mockStore, "admin@campuspathway.in")

		mockSender.On("Enabled").Return(false).Once()

		assert.False(t, service.Dispatch(context.Background(), sampleSubmission()))
		mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationService_Dispatch_SendFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	mockSender := new(MockSender)
	mockStore := new(MockSubmissionStore)
	service := services.NewNotificationService(mockSender, mockStore, "admin@campuspathway.in")
	sub := sampleSubmission()

	mockSender.On("Enabled").Return(true).Once()
	mockSender.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp: connection refused")).Once()

	assert.False(t, service.Dispatch(context.Background(), sub))
	assert.False(t, sub.EmailSent)
	mockStore.AssertNotCalled(t, "MarkEmailSent", mock.Anything, mock.Anything)

	// The failure is logged under the notification sentinel, never surfaced.
	entries := logs.FilterMessage("Failed to send notification email").All()
	require.Len(t, entries, 1)
	var logged error
	for _, f := range entries[0].Context {
		if f.Key == "error" {
			logged, _ = f.Interface.(error)
		}
	}
	require.NotNil(t, logged)
	assert.ErrorIs(t, logged, apperrors.ErrNotification)
	assert.Contains(t, logged.Error(), "connection refused")
}

func TestNotificationService_Dispatch_MarkFailureStillReportsSent(t *testing.T) {
	mockSender := new(MockSender)
	mockStore := new(MockSubmissionStore)
	service := services.NewNotificationService(mockSender, mockStore, "admin@campuspathway.in")
	ctx := context.Background()
	sub := sampleSubmission()

	mockSender.On("Enabled").Return(true).Once()
	mockSender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	mockStore.On("MarkEmailSent", ctx, 42).Return(errors.New("update failed")).Once()

	// The email went out; the stale flag is repaired on a later attempt.
	assert.True(t, service.Dispatch(ctx, sub))
	assert.False(t, sub.EmailSent)
}
