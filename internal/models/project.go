package models

import "time"

// ProjectUsersTable is the join table behind Project.Users.
const ProjectUsersTable = "project_users"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedByID uint64    `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SoftDelete

	// Relations
	CreatedBy User   `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	Users     []User `gorm:"many2many:project_users;constraint:OnDelete:CASCADE" json:"-"`
}

// UserIDs returns the ids of the preloaded collaborators.
func (p *Project) UserIDs() []uint64 {
	ids := make([]uint64, len(p.Users))
	for i, u := range p.Users {
		ids[i] = u.ID
	}
	return ids
}
