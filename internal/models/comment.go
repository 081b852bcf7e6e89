package models

import "time"

// Comment is free text attached to a task.
type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TaskID      uint64    `gorm:"not null;index" json:"task_id"`
	AuthorID    *uint64   `json:"author_id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	DateCreated time.Time `gorm:"not null" json:"date_created"`

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}
