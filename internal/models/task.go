package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusGrooming   TaskStatus = "grooming"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDev        TaskStatus = "dev"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority int

const (
	PriorityLow    TaskPriority = 0
	PriorityMedium TaskPriority = 1
	PriorityHigh   TaskPriority = 2
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(100);not null;uniqueIndex:idx_tasks_project_title" json:"title"`
	Description string       `gorm:"type:varchar(1000)" json:"description"`
	ProjectID   uint64       `gorm:"not null;uniqueIndex:idx_tasks_project_title" json:"project_id"`
	ExecutorID  *uint64      `gorm:"index" json:"executor_id"`
	TesterID    *uint64      `gorm:"index" json:"tester_id"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'grooming'" json:"status"`
	Priority    TaskPriority `gorm:"not null;default:0" json:"priority"`
	Deadline    time.Time    `gorm:"not null;index" json:"deadline"`
	DateCreated time.Time    `gorm:"not null" json:"date_created"`
	DateUpdated time.Time    `gorm:"not null" json:"date_updated"`

	// Relations
	Project  Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Executor *User     `gorm:"foreignKey:ExecutorID;constraint:OnDelete:SET NULL" json:"executor,omitempty"`
	Tester   *User     `gorm:"foreignKey:TesterID;constraint:OnDelete:SET NULL" json:"tester,omitempty"`
	Comments []Comment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}
