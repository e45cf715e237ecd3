package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Project     uint64            `json:"project"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     string            `json:"due_date"`
	CreatedBy   uint64            `json:"created_by"`
	IsDeleted   bool              `json:"is_deleted"`
	DeletedAt   *time.Time        `json:"deleted_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// GeneratedTaskDTO is a drafted task that has not been saved
type GeneratedTaskDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

// GeneratedTasksResponse wraps the drafts returned by task generation
type GeneratedTasksResponse struct {
	Tasks []GeneratedTaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Project:     task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     time.Time(task.DueDate).Format(DateLayout),
		CreatedBy:   task.CreatedByID,
		IsDeleted:   task.IsDeleted,
		DeletedAt:   task.DeletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToGeneratedTasksResponse converts drafted tasks
func ToGeneratedTasksResponse(tasks []services.GeneratedTask) GeneratedTasksResponse {
	items := make([]GeneratedTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = GeneratedTaskDTO{
			Title:       task.Title,
			Description: task.Description,
		}
		if task.DueDate != nil {
			due := task.DueDate.Format(DateLayout)
			items[i].DueDate = &due
		}
	}
	return GeneratedTasksResponse{Tasks: items}
}
