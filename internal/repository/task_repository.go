package repository

import (
	"context"

	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindActiveByID finds a task that is not soft-deleted
func (r *GormTaskRepository) FindActiveByID(ctx context.Context, id uint64) (*models.Task, error) {
	return r.findByID(ctx, database.Active, id)
}

// FindDeletedByID finds a task only among soft-deleted rows
func (r *GormTaskRepository) FindDeletedByID(ctx context.Context, id uint64) (*models.Task, error) {
	return r.findByID(ctx, database.Deleted, id)
}

func (r *GormTaskRepository) findByID(ctx context.Context, scope func(*gorm.DB) *gorm.DB, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves active tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(database.Active)

	// Apply filters
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if err := query.
		Order("tasks.id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// SaveSoftDelete persists only the soft-delete flag and timestamp
func (r *GormTaskRepository) SaveSoftDelete(ctx context.Context, task *models.Task) error {
	return saveSoftDelete(ctx, r.db, task, task.SoftDelete)
}
