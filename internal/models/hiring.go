package models

import "time"

// Hiring is the membership edge between a user and a project.
type Hiring struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	UserID        uint64    `gorm:"not null;uniqueIndex:idx_hirings_user_project" json:"user_id"`
	ProjectID     uint64    `gorm:"not null;uniqueIndex:idx_hirings_user_project;index" json:"project_id"`
	RoleInProject string    `gorm:"type:varchar(100);not null;default:'programmer'" json:"role_in_project"`
	DateJoined    time.Time `json:"date_joined"`

	// Relations
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}
