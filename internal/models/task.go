package models

import (
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	ProjectID   uint64         `gorm:"not null;index" json:"project"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	DueDate     datatypes.Date `gorm:"not null" json:"due_date"`
	CreatedByID uint64         `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	SoftDelete

	// Relations
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy User    `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
}
