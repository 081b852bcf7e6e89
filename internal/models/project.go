package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive  ProjectStatus = "active"
	ProjectStatusArchive ProjectStatus = "archive"
)

type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"title"`
	Description string        `gorm:"type:varchar(1000);not null" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Private     bool          `gorm:"not null;default:false" json:"private"`
	OwnerID     *uint64       `json:"owner_id"`
	DateCreated time.Time     `gorm:"not null" json:"date_created"`
	DateUpdated time.Time     `gorm:"not null" json:"date_updated"`

	// Relations
	Owner   *User    `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	Hirings []Hiring `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks   []Task   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
