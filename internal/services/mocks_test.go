package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campuspathway/leads-api/internal/models"
)

// MockSubmissionStore is a mock implementation of repository.SubmissionStore
type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) Insert(ctx context.Context, sub *models.Submission) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}

func (m *MockSubmissionStore) MarkEmailSent(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubmissionStore) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

// MockDispatcher is a mock implementation of services.NotificationDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, sub *models.Submission) bool {
	args := m.Called(ctx, sub)
	return args.Bool(0)
}

// MockSender is a mock implementation of mailer.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func (m *MockSender) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}
