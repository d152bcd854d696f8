package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campuspathway/leads-api/internal/models"
	"github.com/campuspathway/leads-api/internal/services"
	apperrors "github.com/campuspathway/leads-api/pkg/errors"
	"github.com/campuspathway/leads-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// MockSubmissionService is a mock implementation of SubmissionServiceInterface
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, req *models.SubmitFormRequest) (*models.SubmitFormResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitFormResponse), args.Error(1)
}

func (m *MockSubmissionService) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func setupSubmissionRouter(service services.SubmissionServiceInterface) *gin.Engine {
	handler := NewSubmissionHandler(service)
	router := gin.New()
	router.POST("/api/submit-form", handler.SubmitForm)
	router.GET("/api/submissions", handler.ListSubmissions)
	return router
}

func postJSON(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSubmissionHandler_SubmitForm(t *testing.T) {
	mockService := new(MockSubmissionService)
	router := setupSubmissionRouter(mockService)

	mockService.On("Submit", mock.Anything, mock.MatchedBy(func(req *models.SubmitFormRequest) bool {
		return req.FullName == "Asha Rao" && req.ContactNumber == "+91 98765 43210"
	})).Return(&models.SubmitFormResponse{
		Success:      true,
		Message:      services.SuccessMessage,
		SubmissionID: 42,
		EmailSent:    true,
	}, nil).Once()

	w := postJSON(router, "/api/submit-form",
		`{"fullName":"Asha Rao","contactNumber":"+91 98765 43210","city":"Pune"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SubmitFormResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, services.SuccessMessage, resp.Message)
	assert.Equal(t, 42, resp.SubmissionID)
	assert.True(t, resp.EmailSent)

	mockService.AssertExpectations(t)
}

func TestSubmissionHandler_SubmitForm_Rejections(t *testing.T) {
	tests := []struct {
		name            string
		serviceErr      error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "missing full name",
			serviceErr:      apperrors.MissingFieldError("fullName"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: services.MsgMissingFullName,
		},
		{
			name:            "missing contact number",
			serviceErr:      apperrors.MissingFieldError("contactNumber"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: services.MsgMissingContactNumber,
		},
		{
			name:            "invalid phone",
			serviceErr:      apperrors.InvalidPhoneError("12345"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: services.MsgInvalidContactNumber,
		},
		{
			name:            "storage failure",
			serviceErr:      apperrors.StorageError(errors.New("connection refused")),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: StorageErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockSubmissionService)
			router := setupSubmissionRouter(mockService)

			mockService.On("Submit", mock.Anything, mock.Anything).Return(nil, tt.serviceErr).Once()

			w := postJSON(router, "/api/submit-form", `{"fullName":"x","contactNumber":"y"}`)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.expectedMessage, resp["message"])

			mockService.AssertExpectations(t)
		})
	}
}

func TestSubmissionHandler_SubmitForm_MalformedBody(t *testing.T) {
	mockService := new(MockSubmissionService)
	router := setupSubmissionRouter(mockService)

	w := postJSON(router, "/api/submit-form", `{"fullName": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid request body", resp["message"])

	mockService.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmissionHandler_ListSubmissions(t *testing.T) {
	mockService := new(MockSubmissionService)
	router := setupSubmissionRouter(mockService)

	city := "Pune"
	mockService.On("ListRecent", mock.Anything, 100).Return([]*models.Submission{
		{ID: 2, FullName: "Newer", ContactNumber: "9876543210", City: &city},
		{ID: 1, FullName: "Older", ContactNumber: "9123456780"},
	}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/submissions", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SubmissionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Submissions, 2)
	assert.Equal(t, 2, resp.Submissions[0].ID)
	assert.Equal(t, 1, resp.Submissions[1].ID)

	mockService.AssertExpectations(t)
}

func TestSubmissionHandler_ListSubmissions_CustomLimit(t *testing.T) {
	mockService := new(MockSubmissionService)
	router := setupSubmissionRouter(mockService)

	mockService.On("ListRecent", mock.Anything, 5).Return([]*models.Submission{}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/submissions?limit=5", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSubmissionHandler_ListSubmissions_InvalidLimit(t *testing.T) {
	for _, query := range []string{"limit=abc", "limit=-1"} {
		t.Run(query, func(t *testing.T) {
			mockService := new(MockSubmissionService)
			router := setupSubmissionRouter(mockService)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/submissions?"+query, http.NoBody)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmissionHandler_ListSubmissions_StorageFailure(t *testing.T) {
	mockService := new(MockSubmissionService)
	router := setupSubmissionRouter(mockService)

	mockService.On("ListRecent", mock.Anything, mock.Anything).
		Return(nil, apperrors.StorageError(errors.New("connection refused"))).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/submissions", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, StorageErrorMessage, resp["message"])
}
