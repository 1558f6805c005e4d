package models

import "time"

// Application statuses. Submitted applications move to under_review and
// end in accepted or rejected; students may withdraw before a decision.
const (
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusUnderReview = "under_review"
	ApplicationStatusAccepted    = "accepted"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusWithdrawn   = "withdrawn"
)

// Application links a student to a program they applied for. The match
// score is a snapshot taken at submission time; the live score is always
// recomputed from current qualifications.
type Application struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;index:idx_applications_student_program,unique" json:"student_id"`
	ProgramID  uint      `gorm:"not null;index:idx_applications_student_program,unique" json:"program_id"`
	Program    Program   `json:"program,omitempty"`
	Status     string    `gorm:"size:32;not null;default:submitted" json:"status"`
	MatchScore *int      `json:"match_score"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
