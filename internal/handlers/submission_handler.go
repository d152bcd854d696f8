package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuspathway/leads-api/internal/models"
	"github.com/campuspathway/leads-api/internal/repository"
	"github.com/campuspathway/leads-api/internal/services"
	apperrors "github.com/campuspathway/leads-api/pkg/errors"
)

// StorageErrorMessage is the generic user-facing message for persistence
// failures; the full detail is logged, never exposed to the client.
const StorageErrorMessage = "Something went wrong. Please try again later."

type SubmissionHandler struct {
	service services.SubmissionServiceInterface
}

func NewSubmissionHandler(service services.SubmissionServiceInterface) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// SubmitForm handles POST /api/submit-form
func (h *SubmissionHandler) SubmitForm(c *gin.Context) {
	var req models.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, rejectionStatus(err), rejectionMessage(err), err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listQuery carries the optional pagination parameter. The upper bound is
// enforced by the store, which never returns more than MaxListLimit rows.
type listQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1"`
}

// ListSubmissions handles GET /api/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	q := listQuery{Limit: repository.MaxListLimit}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err), err)
		return
	}

	subs, err := h.service.ListRecent(c.Request.Context(), q.Limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, StorageErrorMessage, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmissionsResponse{
		Success:     true,
		Submissions: subs,
	})
}

func rejectionStatus(err error) int {
	if errors.Is(err, apperrors.ErrMissingField) || errors.Is(err, apperrors.ErrInvalidPhone) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func rejectionMessage(err error) string {
	var fieldErr *apperrors.FieldError
	switch {
	case errors.As(err, &fieldErr) && errors.Is(err, apperrors.ErrMissingField):
		if fieldErr.Field == "fullName" {
			return services.MsgMissingFullName
		}
		return services.MsgMissingContactNumber
	case errors.Is(err, apperrors.ErrInvalidPhone):
		return services.MsgInvalidContactNumber
	default:
		return StorageErrorMessage
	}
}
