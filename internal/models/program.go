package models

import (
	"time"

	"github.com/noah-isme/unimatch-go-api/internal/matching"
)

// Program is a course of study students can be matched against.
type Program struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	DepartmentID uint                 `gorm:"not null;index" json:"department_id"`
	Department   Department           `json:"department,omitempty"`
	Name         string               `gorm:"size:255;not null" json:"name"`
	Degree       string               `gorm:"size:64" json:"degree"`
	Description  string               `gorm:"type:text" json:"description"`
	Capacity     int                  `json:"capacity"`
	Active       bool                 `gorm:"default:true" json:"active"`
	Requirements []ProgramRequirement `gorm:"constraint:OnDelete:CASCADE" json:"requirements,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ProgramRequirement is one declared admission criterion of a program.
type ProgramRequirement struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	ProgramID   uint                     `gorm:"not null;index" json:"program_id"`
	Type        matching.RequirementType `gorm:"size:32;not null" json:"type"`
	Subject     string                   `gorm:"size:255" json:"subject"`
	MinGrade    string                   `gorm:"size:32" json:"min_grade"`
	Description string                   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// MatcherInput converts the stored requirement into the matcher's view.
func (r ProgramRequirement) MatcherInput() matching.Requirement {
	return matching.Requirement{
		ID:       r.ID,
		Type:     r.Type,
		Subject:  r.Subject,
		MinGrade: r.MinGrade,
	}
}

// MatcherInput converts the program and its requirements for evaluation.
func (p Program) MatcherInput() matching.Program {
	requirements := make([]matching.Requirement, 0, len(p.Requirements))
	for _, requirement := range p.Requirements {
		requirements = append(requirements, requirement.MatcherInput())
	}

	return matching.Program{ID: p.ID, Requirements: requirements}
}
