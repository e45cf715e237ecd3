package models

import "time"

// SoftDelete is the is_deleted/deleted_at pair shared by projects and tasks.
// IsDeleted is true exactly when DeletedAt is set.
type SoftDelete struct {
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// MarkDeleted flags the record as deleted at now.
func (s *SoftDelete) MarkDeleted(now time.Time) {
	s.IsDeleted = true
	s.DeletedAt = &now
}

// Restore clears the deletion flag and timestamp.
func (s *SoftDelete) Restore() {
	s.IsDeleted = false
	s.DeletedAt = nil
}
