package dto

import (
	"github.com/noah-isme/unimatch-go-api/internal/matching"
	"github.com/noah-isme/unimatch-go-api/internal/models"
)

// RequirementMatchResponse details how one requirement fared for a student.
type RequirementMatchResponse struct {
	RequirementID   uint   `json:"requirement_id"`
	Type            string `json:"type"`
	Subject         string `json:"subject"`
	MinGrade        string `json:"min_grade"`
	Status          string `json:"status"`
	Reason          string `json:"reason"`
	QualificationID *uint  `json:"qualification_id"`
}

// ProgramMatchResponse is one ranked entry of the match list.
type ProgramMatchResponse struct {
	ProgramID         uint                       `json:"program_id"`
	ProgramName       string                     `json:"program_name"`
	Degree            string                     `json:"degree"`
	DepartmentName    string                     `json:"department_name"`
	UniversityName    string                     `json:"university_name"`
	MatchScore        int                        `json:"match_score"`
	MetRequirements   int                        `json:"met_requirements"`
	TotalRequirements int                        `json:"total_requirements"`
	Requirements      []RequirementMatchResponse `json:"requirements"`
}

// MatchListResponse is the ranked, filtered match list for a student.
type MatchListResponse struct {
	Items    []ProgramMatchResponse `json:"items"`
	CacheHit bool                   `json:"cache_hit"`
}

// EvaluateRequirementRequest asks the matcher for a single verdict. Used by
// administrators to debug why a qualification does or does not satisfy a
// requirement.
type EvaluateRequirementRequest struct {
	QualificationID uint `json:"qualification_id" validate:"required"`
	RequirementID   uint `json:"requirement_id" validate:"required"`
}

// EvaluateRequirementResponse is the matcher verdict with its reason.
type EvaluateRequirementResponse struct {
	Matches bool   `json:"matches"`
	Reason  string `json:"reason"`
}

// NewProgramMatchResponse combines an evaluated result with catalog data.
func NewProgramMatchResponse(result matching.MatchResult, program models.Program) ProgramMatchResponse {
	requirements := make([]RequirementMatchResponse, 0, len(result.Requirements))
	for _, requirement := range result.Requirements {
		requirements = append(requirements, RequirementMatchResponse{
			RequirementID:   requirement.RequirementID,
			Type:            string(requirement.Type),
			Subject:         requirement.Subject,
			MinGrade:        requirement.MinGrade,
			Status:          string(requirement.Status),
			Reason:          requirement.Reason,
			QualificationID: requirement.QualificationID,
		})
	}

	return ProgramMatchResponse{
		ProgramID:         result.ProgramID,
		ProgramName:       program.Name,
		Degree:            program.Degree,
		DepartmentName:    program.Department.Name,
		UniversityName:    program.Department.University.Name,
		MatchScore:        result.Score,
		MetRequirements:   result.MetRequirements,
		TotalRequirements: result.TotalRequirements,
		Requirements:      requirements,
	}
}
