package models

import "time"

// Submission is the persisted lead record. It is created once and immutable
// afterwards except for EmailSent, which only ever transitions false -> true.
type Submission struct {
	ID               int       `json:"id"`
	FullName         string    `json:"full_name"`
	ContactNumber    string    `json:"contact_number"`
	City             *string   `json:"city"`
	InterestedCourse *string   `json:"interested_course"`
	Message          *string   `json:"message"`
	CreatedAt        time.Time `json:"created_at"`
	EmailSent        bool      `json:"email_sent"`
}

// SubmitFormRequest is the lead form payload posted by the marketing site.
// Required-field and phone-format checks live in the validation gate rather
// than binding tags so that rejections carry the exact user-facing messages.
type SubmitFormRequest struct {
	FullName         string `json:"fullName"`
	ContactNumber    string `json:"contactNumber"`
	City             string `json:"city,omitempty"`
	InterestedCourse string `json:"interestedCourse,omitempty"`
	Message          string `json:"message,omitempty"`
}

// SubmitFormResponse is returned after a form submission attempt
type SubmitFormResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID int    `json:"submissionId,omitempty"`
	EmailSent    bool   `json:"emailSent"`
}

// SubmissionsResponse wraps the recent-submissions listing
type SubmissionsResponse struct {
	Success     bool          `json:"success"`
	Submissions []*Submission `json:"submissions"`
}
