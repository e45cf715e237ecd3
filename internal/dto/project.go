package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Users       []uint64   `json:"users"`
	CreatedBy   uint64     `json:"created_by"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Users:       project.UserIDs(),
		CreatedBy:   project.CreatedByID,
		IsDeleted:   project.IsDeleted,
		DeletedAt:   project.DeletedAt,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return items
}
