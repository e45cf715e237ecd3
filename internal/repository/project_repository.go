package repository

import (
	"context"

	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project. Collaborators must already exist; only the
// join rows are written for them.
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("CreatedBy", "Users.*").Create(project).Error
}

// FindActiveByID finds a project that is not soft-deleted
func (r *GormProjectRepository) FindActiveByID(ctx context.Context, id uint64) (*models.Project, error) {
	return r.findByID(ctx, database.Active, id)
}

// FindDeletedByID finds a project only among soft-deleted rows
func (r *GormProjectRepository) FindDeletedByID(ctx context.Context, id uint64) (*models.Project, error) {
	return r.findByID(ctx, database.Deleted, id)
}

func (r *GormProjectRepository) findByID(ctx context.Context, scope func(*gorm.DB) *gorm.DB, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Users", orderUsers).
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Exists reports whether a project row exists, deleted or not
func (r *GormProjectRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// NameTaken reports whether another project, deleted ones included, uses name
func (r *GormProjectRepository) NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves active projects ordered by id
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Scopes(database.Active)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	projects := []models.Project{}
	if err := query.
		Preload("Users", orderUsers).
		Order("projects.id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update saves the project columns and optionally replaces its collaborators
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project, replaceUsers bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}
		if !replaceUsers {
			return nil
		}
		return tx.Model(project).Association("Users").Replace(project.Users)
	})
}

// SaveSoftDelete persists only the soft-delete flag and timestamp
func (r *GormProjectRepository) SaveSoftDelete(ctx context.Context, project *models.Project) error {
	return saveSoftDelete(ctx, r.db, project, project.SoftDelete)
}

func orderUsers(db *gorm.DB) *gorm.DB {
	return db.Order("users.id ASC")
}
