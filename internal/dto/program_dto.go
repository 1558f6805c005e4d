package dto

import (
	"time"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// ProgramListRequest filters the public program catalog.
type ProgramListRequest struct {
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
	UniversityID uint   `json:"university_id"`
	DepartmentID uint   `json:"department_id"`
	Degree       string `json:"degree"`
	Search       string `json:"search"`
}

// ProgramCreateRequest is the admin payload for creating a program.
type ProgramCreateRequest struct {
	DepartmentID uint   `json:"department_id" validate:"required"`
	Name         string `json:"name" validate:"required,max=255"`
	Degree       string `json:"degree" validate:"max=64"`
	Description  string `json:"description"`
	Capacity     int    `json:"capacity" validate:"min=0"`
	Active       *bool  `json:"active"`
}

// ProgramUpdateRequest is the admin payload for editing a program.
type ProgramUpdateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Degree      string `json:"degree" validate:"max=64"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" validate:"min=0"`
	Active      *bool  `json:"active"`
}

// RequirementCreateRequest is the admin payload for adding a requirement.
type RequirementCreateRequest struct {
	Type        string `json:"type" validate:"required,oneof=GRADE LANGUAGE COURSE INTERVIEW PORTFOLIO"`
	Subject     string `json:"subject" validate:"max=255"`
	MinGrade    string `json:"min_grade" validate:"max=32"`
	Description string `json:"description"`
}

// RequirementUpdateRequest is the admin payload for editing a requirement.
type RequirementUpdateRequest struct {
	Subject     string `json:"subject" validate:"max=255"`
	MinGrade    string `json:"min_grade" validate:"max=32"`
	Description string `json:"description"`
}

// RequirementResponse is the API view of a program requirement.
type RequirementResponse struct {
	ID          uint   `json:"id"`
	ProgramID   uint   `json:"program_id"`
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	MinGrade    string `json:"min_grade"`
	Description string `json:"description"`
}

// ProgramResponse is the API view of a program with its requirements.
type ProgramResponse struct {
	ID             uint                  `json:"id"`
	DepartmentID   uint                  `json:"department_id"`
	DepartmentName string                `json:"department_name"`
	UniversityName string                `json:"university_name"`
	Name           string                `json:"name"`
	Degree         string                `json:"degree"`
	Description    string                `json:"description"`
	Capacity       int                   `json:"capacity"`
	Active         bool                  `json:"active"`
	Requirements   []RequirementResponse `json:"requirements"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ProgramListResponse pages through the catalog.
type ProgramListResponse struct {
	Items      []ProgramResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewRequirementResponse maps a requirement model to its API view.
func NewRequirementResponse(requirement models.ProgramRequirement) RequirementResponse {
	return RequirementResponse{
		ID:          requirement.ID,
		ProgramID:   requirement.ProgramID,
		Type:        string(requirement.Type),
		Subject:     requirement.Subject,
		MinGrade:    requirement.MinGrade,
		Description: requirement.Description,
	}
}

// NewProgramResponse maps a program model to its API view.
func NewProgramResponse(program models.Program) ProgramResponse {
	requirements := make([]RequirementResponse, 0, len(program.Requirements))
	for _, requirement := range program.Requirements {
		requirements = append(requirements, NewRequirementResponse(requirement))
	}

	return ProgramResponse{
		ID:             program.ID,
		DepartmentID:   program.DepartmentID,
		DepartmentName: program.Department.Name,
		UniversityName: program.Department.University.Name,
		Name:           program.Name,
		Degree:         program.Degree,
		Description:    program.Description,
		Capacity:       program.Capacity,
		Active:         program.Active,
		Requirements:   requirements,
		CreatedAt:      program.CreatedAt,
		UpdatedAt:      program.UpdatedAt,
	}
}

// NewProgramResponseSlice maps a list of program models to API views.
func NewProgramResponseSlice(programs []models.Program) []ProgramResponse {
	responses := make([]ProgramResponse, 0, len(programs))
	for _, program := range programs {
		responses = append(responses, NewProgramResponse(program))
	}
	return responses
}
