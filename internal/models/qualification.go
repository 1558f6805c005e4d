package models

import (
	"time"

	"github.com/noah-isme/unimatch-go-api/internal/matching"
)

// Qualification is a student-held credential or test result. Only verified
// qualifications count toward eligibility; verification is an admin action.
type Qualification struct {
	ID         uint                       `gorm:"primaryKey" json:"id"`
	StudentID  uint                       `gorm:"not null;index" json:"student_id"`
	Type       matching.QualificationType `gorm:"size:32;not null" json:"type"`
	Subject    string                     `gorm:"size:255;not null" json:"subject"`
	Grade      string                     `gorm:"size:32;not null" json:"grade"`
	Verified   bool                       `gorm:"default:false;index" json:"verified"`
	VerifiedBy *uint                      `json:"verified_by"`
	VerifiedAt *time.Time                 `json:"verified_at"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// MatcherInput converts the stored qualification into the matcher's view.
func (q Qualification) MatcherInput() matching.Qualification {
	return matching.Qualification{
		ID:      q.ID,
		Type:    q.Type,
		Subject: q.Subject,
		Grade:   q.Grade,
	}
}
