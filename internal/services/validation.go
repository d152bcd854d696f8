package services

import (
	"strings"

	"github.com/campuspathway/leads-api/internal/models"
	apperrors "github.com/campuspathway/leads-api/pkg/errors"
)

// User-facing rejection messages, matching what the form displays.
const (
	MsgMissingFullName      = "Please enter your full name"
	MsgMissingContactNumber = "Please enter your contact number"
	MsgInvalidContactNumber = "Please enter a valid 10-digit contact number"
)

// NormalizePhone strips all non-digit characters and keeps the last 10
// digits, the canonical form for Indian mobile numbers ("+91 98765 43210"
// becomes "9876543210"). The result is empty unless exactly 10 digits remain.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	s := digits.String()
	if len(s) < 10 {
		return ""
	}
	return s[len(s)-10:]
}

// ValidateSubmission is the validation gate for incoming form payloads.
// It is pure: given a parsed request body it returns either a canonical
// record ready for insertion or a rejection, with no side effects.
// Optional fields are carried as nil pointers, never empty strings.
func ValidateSubmission(req *models.SubmitFormRequest) (*models.Submission, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperrors.MissingFieldError("fullName")
	}

	contactNumber := strings.TrimSpace(req.ContactNumber)
	if contactNumber == "" {
		return nil, apperrors.MissingFieldError("contactNumber")
	}

	normalized := NormalizePhone(contactNumber)
	if normalized == "" {
		return nil, apperrors.InvalidPhoneError(contactNumber)
	}

	return &models.Submission{
		FullName:         fullName,
		ContactNumber:    normalized,
		City:             nilIfEmpty(req.City),
		InterestedCourse: nilIfEmpty(req.InterestedCourse),
		Message:          nilIfEmpty(req.Message),
	}, nil
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
