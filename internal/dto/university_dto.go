package dto

import (
	"time"

	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// UniversityCreateRequest is the admin payload for creating a university.
type UniversityCreateRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Country string `json:"country" validate:"max=128"`
	City    string `json:"city" validate:"max=128"`
	Website string `json:"website" validate:"omitempty,url,max=255"`
}

// UniversityUpdateRequest is the admin payload for editing a university.
type UniversityUpdateRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Country string `json:"country" validate:"max=128"`
	City    string `json:"city" validate:"max=128"`
	Website string `json:"website" validate:"omitempty,url,max=255"`
}

// DepartmentCreateRequest is the admin payload for adding a department.
type DepartmentCreateRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// DepartmentResponse is the API view of a department.
type DepartmentResponse struct {
	ID           uint   `json:"id"`
	UniversityID uint   `json:"university_id"`
	Name         string `json:"name"`
}

// UniversityResponse is the API view of a university.
type UniversityResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Country     string               `json:"country"`
	City        string               `json:"city"`
	Website     string               `json:"website"`
	LogoURL     string               `json:"logo_url"`
	Departments []DepartmentResponse `json:"departments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// UniversityListResponse pages through universities.
type UniversityListResponse struct {
	Items      []UniversityResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// NewDepartmentResponse maps a department model to its API view.
func NewDepartmentResponse(department models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:           department.ID,
		UniversityID: department.UniversityID,
		Name:         department.Name,
	}
}

// NewUniversityResponse maps a university model to its API view.
func NewUniversityResponse(university models.University) UniversityResponse {
	departments := make([]DepartmentResponse, 0, len(university.Departments))
	for _, department := range university.Departments {
		departments = append(departments, NewDepartmentResponse(department))
	}

	return UniversityResponse{
		ID:          university.ID,
		Name:        university.Name,
		Country:     university.Country,
		City:        university.City,
		Website:     university.Website,
		LogoURL:     university.LogoURL,
		Departments: departments,
		CreatedAt:   university.CreatedAt,
		UpdatedAt:   university.UpdatedAt,
	}
}
