package matching

import (
	"math"
	"strings"
)

// RequirementStatus reports how a requirement fared against the student's
// qualification set.
type RequirementStatus string

// Requirement statuses. Partial marks a near miss: the right category of
// qualification is held but the threshold or subject bar was not cleared.
const (
	StatusMet     RequirementStatus = "met"
	StatusPartial RequirementStatus = "partial"
	StatusNotMet  RequirementStatus = "not_met"
)

// Program is the evaluator's view of a program and its admission criteria.
type Program struct {
	ID           uint
	Requirements []Requirement
}

// RequirementMatch records the outcome for one requirement, including the
// qualification that satisfied it when one did.
type RequirementMatch struct {
	RequirementID   uint
	Type            RequirementType
	Subject         string
	MinGrade        string
	Status          RequirementStatus
	Reason          string
	QualificationID *uint
}

// MatchResult is the derived outcome of evaluating one program for one
// student. It is recomputed on demand and never stored as source of truth.
type MatchResult struct {
	ProgramID         uint
	Score             int
	MetRequirements   int
	TotalRequirements int
	Requirements      []RequirementMatch
}

// Weights scales the contribution of each requirement category to the
// match score. The defaults weigh every category equally, which reduces
// the score to the plain met/total percentage.
type Weights struct {
	Grade           float64
	Language        float64
	Extracurricular float64
	WorkExperience  float64
}

// DefaultWeights returns the equal weighting used unless configured otherwise.
func DefaultWeights() Weights {
	return Weights{Grade: 1, Language: 1, Extracurricular: 1, WorkExperience: 1}
}

func (w Weights) forRequirement(t RequirementType) float64 {
	var weight float64
	switch t {
	case RequirementGrade, RequirementCourse:
		weight = w.Grade
	case RequirementLanguage:
		weight = w.Language
	case RequirementPortfolio:
		weight = w.Extracurricular
	case RequirementInterview:
		weight = w.WorkExperience
	}

	if weight <= 0 {
		return 1
	}
	return weight
}

// EvaluateProgram runs every requirement of a program against the supplied
// qualification set and aggregates the outcome. The second return value is
// false for programs with no requirements: they cannot be scored and must
// not appear in results at all.
func EvaluateProgram(program Program, qualifications []Qualification, weights Weights) (MatchResult, bool) {
	if len(program.Requirements) == 0 {
		return MatchResult{}, false
	}

	result := MatchResult{
		ProgramID:         program.ID,
		TotalRequirements: len(program.Requirements),
		Requirements:      make([]RequirementMatch, 0, len(program.Requirements)),
	}

	var metWeight, totalWeight float64

	for _, requirement := range program.Requirements {
		weight := weights.forRequirement(requirement.Type)
		totalWeight += weight

		match := RequirementMatch{
			RequirementID: requirement.ID,
			Type:          requirement.Type,
			Subject:       requirement.Subject,
			MinGrade:      requirement.MinGrade,
			Status:        StatusNotMet,
		}

		for _, qualification := range qualifications {
			evaluation := EvaluateRequirement(qualification, requirement)
			if evaluation.Matches {
				id := qualification.ID
				match.Status = StatusMet
				match.Reason = evaluation.Reason
				match.QualificationID = &id
				break
			}
			match.Reason = evaluation.Reason
		}

		if match.Status == StatusMet {
			result.MetRequirements++
			metWeight += weight
		} else if status, reason := partialStatus(requirement, qualifications); status == StatusPartial {
			match.Status = StatusPartial
			match.Reason = reason
		}

		result.Requirements = append(result.Requirements, match)
	}

	if totalWeight > 0 {
		result.Score = int(math.Round(100 * metWeight / totalWeight))
	}

	return result, true
}

// partialStatus applies the near-miss heuristic for unmatched requirements:
// a language requirement is partial if any language test is held at all, a
// grade requirement is partial if the subject is held at any grade level.
func partialStatus(requirement Requirement, qualifications []Qualification) (RequirementStatus, string) {
	switch requirement.Type {
	case RequirementLanguage:
		for _, qualification := range qualifications {
			if qualification.Type == QualificationLanguageTest {
				return StatusPartial, "a language test is held but does not meet the requirement"
			}
		}
	case RequirementGrade:
		subject := strings.TrimSpace(requirement.Subject)
		if subject == "" {
			return StatusNotMet, ""
		}
		for _, qualification := range qualifications {
			if strings.EqualFold(strings.TrimSpace(qualification.Subject), subject) {
				return StatusPartial, "the subject is held but the grade does not meet the minimum"
			}
		}
	}

	return StatusNotMet, ""
}
