package matching

import (
	"fmt"
	"strings"
)

// QualificationType classifies a student-held credential.
type QualificationType string

// Qualification types.
const (
	QualificationHighSchool    QualificationType = "HIGH_SCHOOL"
	QualificationUndergraduate QualificationType = "UNDERGRADUATE"
	QualificationLanguageTest  QualificationType = "LANGUAGE_TEST"
	QualificationOther         QualificationType = "OTHER"
)

// RequirementType classifies a program admission criterion.
type RequirementType string

// Requirement types. Interview and portfolio requirements are assessed
// manually and can never be satisfied by qualification comparison.
const (
	RequirementGrade     RequirementType = "GRADE"
	RequirementLanguage  RequirementType = "LANGUAGE"
	RequirementCourse    RequirementType = "COURSE"
	RequirementInterview RequirementType = "INTERVIEW"
	RequirementPortfolio RequirementType = "PORTFOLIO"
)

// Qualification is the matcher's view of a student credential.
type Qualification struct {
	ID      uint
	Type    QualificationType
	Subject string
	Grade   string
}

// Requirement is the matcher's view of a program admission criterion.
type Requirement struct {
	ID       uint
	Type     RequirementType
	Subject  string
	MinGrade string
}

// Evaluation is the verdict for one qualification against one requirement.
// The reason is informational only and never drives control flow.
type Evaluation struct {
	Matches bool
	Reason  string
}

// compatibleTypes fixes which qualification types can satisfy each
// requirement type. Absent entries accept nothing.
var compatibleTypes = map[RequirementType][]QualificationType{
	RequirementGrade:    {QualificationHighSchool, QualificationUndergraduate, QualificationOther},
	RequirementLanguage: {QualificationLanguageTest},
	RequirementCourse:   {QualificationUndergraduate, QualificationOther},
}

// EvaluateRequirement decides whether a single qualification satisfies a
// single requirement. Pure function over its two inputs.
func EvaluateRequirement(qualification Qualification, requirement Requirement) Evaluation {
	switch requirement.Type {
	case RequirementInterview, RequirementPortfolio:
		return Evaluation{Matches: false, Reason: fmt.Sprintf("%s requirements are assessed manually", strings.ToLower(string(requirement.Type)))}
	}

	if !typeCompatible(requirement.Type, qualification.Type) {
		return Evaluation{Matches: false, Reason: fmt.Sprintf("qualification type %s is not accepted for %s requirements", qualification.Type, requirement.Type)}
	}

	if subject := strings.TrimSpace(requirement.Subject); subject != "" {
		if !strings.EqualFold(subject, strings.TrimSpace(qualification.Subject)) {
			return Evaluation{Matches: false, Reason: fmt.Sprintf("subject %q does not match required subject %q", qualification.Subject, requirement.Subject)}
		}
	}

	if minimum := strings.TrimSpace(requirement.MinGrade); minimum != "" {
		if !GradeMeets(qualification.Grade, minimum) {
			return Evaluation{Matches: false, Reason: fmt.Sprintf("grade %q does not meet the minimum %q", qualification.Grade, requirement.MinGrade)}
		}
	}

	return Evaluation{Matches: true, Reason: "requirement satisfied"}
}

func typeCompatible(requirement RequirementType, qualification QualificationType) bool {
	for _, allowed := range compatibleTypes[requirement] {
		if allowed == qualification {
			return true
		}
	}
	return false
}
