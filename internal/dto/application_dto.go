package dto

import (
	"time"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// ApplicationCreateRequest is the student payload for applying to a program.
type ApplicationCreateRequest struct {
	ProgramID uint   `json:"program_id" validate:"required"`
	Note      string `json:"note" validate:"max=2000"`
}

// ApplicationStatusRequest is the admin payload for a review decision.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=under_review accepted rejected"`
	Note   string `json:"note" validate:"max=2000"`
}

// ApplicationResponse is the API view of an application.
type ApplicationResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	ProgramID   uint      `json:"program_id"`
	ProgramName string    `json:"program_name"`
	Status      string    `json:"status"`
	MatchScore  *int      `json:"match_score"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewApplicationResponse maps a model to its API view.
func NewApplicationResponse(application models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          application.ID,
		StudentID:   application.StudentID,
		ProgramID:   application.ProgramID,
		ProgramName: application.Program.Name,
		Status:      application.Status,
		MatchScore:  application.MatchScore,
		Note:        application.Note,
		CreatedAt:   application.CreatedAt,
		UpdatedAt:   application.UpdatedAt,
	}
}

// NewApplicationResponseSlice maps a list of models to API views.
func NewApplicationResponseSlice(applications []models.Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, NewApplicationResponse(application))
	}
	return responses
}
