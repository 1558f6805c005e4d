package models

import "time"

// University represents an institution offering programs.
type University struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Country     string       `gorm:"size:128" json:"country"`
	City        string       `gorm:"size:128" json:"city"`
	Website     string       `gorm:"size:255" json:"website"`
	LogoURL     string       `gorm:"size:512" json:"logo_url"`
	Departments []Department `gorm:"constraint:OnDelete:CASCADE" json:"departments,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Department groups programs within a university.
type Department struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UniversityID uint       `gorm:"not null;index" json:"university_id"`
	University   University `json:"university,omitempty"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Programs     []Program  `gorm:"constraint:OnDelete:CASCADE" json:"programs,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
