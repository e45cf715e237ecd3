package repository

import (
	"context"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project together with its collaborator links
	Create(ctx context.Context, project *models.Project) error

	// FindActiveByID finds a project that is not soft-deleted
	FindActiveByID(ctx context.Context, id uint64) (*models.Project, error)

	// FindDeletedByID finds a project only among soft-deleted rows
	FindDeletedByID(ctx context.Context, id uint64) (*models.Project, error)

	// Exists reports whether a project row exists, deleted or not
	Exists(ctx context.Context, id uint64) (bool, error)

	// NameTaken reports whether any project other than excludeID, deleted
	// ones included, already uses name
	NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error)

	// List retrieves active projects with pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Update saves the project columns and, if replaceUsers is set, its
	// collaborator list
	Update(ctx context.Context, project *models.Project, replaceUsers bool) error

	// SaveSoftDelete persists only the soft-delete flag and timestamp
	SaveSoftDelete(ctx context.Context, project *models.Project) error
}

// ProjectFilter holds options for listing projects
type ProjectFilter struct {
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindActiveByID finds a task that is not soft-deleted
	FindActiveByID(ctx context.Context, id uint64) (*models.Task, error)

	// FindDeletedByID finds a task only among soft-deleted rows
	FindDeletedByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves active tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// SaveSoftDelete persists only the soft-delete flag and timestamp
	SaveSoftDelete(ctx context.Context, task *models.Task) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  *uint64
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIDs returns the users among ids that exist
	FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error)
}
