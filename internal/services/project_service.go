package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	apperrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	UserIDs     []uint64
	CreatorID   uint64
}

// UpdateProjectInput represents input for updating a project. Nil fields are
// left untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	UserIDs     *[]uint64
}

// ListProjects returns the active projects
func (s *ProjectService) ListProjects(ctx context.Context, pagination utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{Pagination: pagination})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns an active project
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject validates and stores a new project owned by the creator
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)

	fields := apperrors.FieldErrors{}
	if err := s.checkName(ctx, fields, name, 0); err != nil {
		return nil, err
	}
	users, err := s.resolveUsers(ctx, fields, input.UserIDs)
	if err != nil {
		return nil, err
	}
	if !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		CreatedByID: input.CreatorID,
		Users:       users,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if verr := s.translateProjectWriteError(ctx, err, input.UserIDs); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(ctx, project.ID)
}

// UpdateProject applies the given fields to an active project
func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := apperrors.FieldErrors{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := s.checkName(ctx, fields, name, project.ID); err != nil {
			return nil, err
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.UserIDs != nil {
		users, err := s.resolveUsers(ctx, fields, *input.UserIDs)
		if err != nil {
			return nil, err
		}
		project.Users = users
	}
	if !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.projectRepo.Update(ctx, project, input.UserIDs != nil); err != nil {
		var userIDs []uint64
		if input.UserIDs != nil {
			userIDs = *input.UserIDs
		}
		if verr := s.translateProjectWriteError(ctx, err, userIDs); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(ctx, project.ID)
}

// DeleteProject soft-deletes an active project
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	project.MarkDeleted(s.now())
	if err := s.projectRepo.SaveSoftDelete(ctx, project); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// RestoreProject brings a soft-deleted project back. Active and unknown ids
// both report ErrProjectNotFound.
func (s *ProjectService) RestoreProject(ctx context.Context, id uint64) error {
	project, err := s.projectRepo.FindDeletedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	project.Restore()
	if err := s.projectRepo.SaveSoftDelete(ctx, project); err != nil {
		return fmt.Errorf("failed to restore project: %w", err)
	}
	return nil
}

// checkName records a field error when name is blank or used by any other
// project, deleted ones included.
func (s *ProjectService) checkName(ctx context.Context, fields apperrors.FieldErrors, name string, excludeID uint64) error {
	if name == "" {
		fields.Add("name", apperrors.MsgBlank)
		return nil
	}
	if utf8.RuneCountInString(name) > constants.MaxNameLength {
		fields.Add("name", apperrors.MsgMaxLength(constants.MaxNameLength))
		return nil
	}

	taken, err := s.projectRepo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	if taken {
		fields.Add("name", MsgProjectNameTaken)
	}
	return nil
}

// resolveUsers loads the users behind ids, keeping the first occurrence of
// each. The first unknown id is recorded as a field error.
func (s *ProjectService) resolveUsers(ctx context.Context, fields apperrors.FieldErrors, ids []uint64) ([]models.User, error) {
	ids = uniqueUint64(ids)
	found, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to verify users: %w", err)
	}

	byID := make(map[uint64]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			fields.Add("users", apperrors.MsgInvalidPK(id))
			return nil, nil
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *ProjectService) translateProjectWriteError(ctx context.Context, err error, userIDs []uint64) *ValidationError {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fieldError("name", MsgProjectNameTaken)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// a collaborator was removed after resolveUsers ran; look again to name it
		fields := apperrors.FieldErrors{}
		if _, rerr := s.resolveUsers(ctx, fields, userIDs); rerr != nil || fields.Empty() {
			return nil
		}
		return &ValidationError{Fields: fields}
	default:
		return nil
	}
}

func uniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
