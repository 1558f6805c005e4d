package dto

import (
	"time"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// QualificationCreateRequest is the payload for adding a qualification.
type QualificationCreateRequest struct {
	Type    string `json:"type" validate:"required,oneof=HIGH_SCHOOL UNDERGRADUATE LANGUAGE_TEST OTHER"`
	Subject string `json:"subject" validate:"required,max=255"`
	Grade   string `json:"grade" validate:"required,max=32"`
}

// QualificationUpdateRequest is the payload for editing a qualification.
// Editing resets the verified flag since the content changed.
type QualificationUpdateRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Grade   string `json:"grade" validate:"required,max=32"`
}

// QualificationResponse is the API view of a qualification.
type QualificationResponse struct {
	ID         uint       `json:"id"`
	StudentID  uint       `json:"student_id"`
	Type       string     `json:"type"`
	Subject    string     `json:"subject"`
	Grade      string     `json:"grade"`
	Verified   bool       `json:"verified"`
	VerifiedBy *uint      `json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewQualificationResponse maps a model to its API view.
func NewQualificationResponse(qualification models.Qualification) QualificationResponse {
	return QualificationResponse{
		ID:         qualification.ID,
		StudentID:  qualification.StudentID,
		Type:       string(qualification.Type),
		Subject:    qualification.Subject,
		Grade:      qualification.Grade,
		Verified:   qualification.Verified,
		VerifiedBy: qualification.VerifiedBy,
		VerifiedAt: qualification.VerifiedAt,
		CreatedAt:  qualification.CreatedAt,
		UpdatedAt:  qualification.UpdatedAt,
	}
}

// NewQualificationResponseSlice maps a list of models to API views.
func NewQualificationResponseSlice(qualifications []models.Qualification) []QualificationResponse {
	responses := make([]QualificationResponse, 0, len(qualifications))
	for _, qualification := range qualifications {
		responses = append(responses, NewQualificationResponse(qualification))
	}
	return responses
}
