package models

import "time"

// Roles carried in session tokens.
const (
	RoleStudent                 = "student"
	RoleDepartmentAdministrator = "department_administrator"
	RoleSuperAdmin              = "super_admin"
)

// Student is the profile row for a learner, keyed to the token subject.
type Student struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Email          string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Country        string          `gorm:"size:128" json:"country"`
	Qualifications []Qualification `gorm:"constraint:OnDelete:CASCADE" json:"qualifications,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsAdminRole reports whether the role may perform administrative actions.
func IsAdminRole(role string) bool {
	return role == RoleDepartmentAdministrator || role == RoleSuperAdmin
}
