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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	drafter     TaskDrafter
	now         func() time.Time
}

// NewTaskService creates a new TaskService. drafter may be nil, in which case
// GenerateTasks reports ErrAIServiceNotConfigured.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, drafter TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		drafter:     drafter,
		now:         time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID  *uint64
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     time.Time
	CreatorID   uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched.
type UpdateTaskInput struct {
	ProjectID   *uint64
	Title       *string
	Description *string
	Status      *models.TaskStatus
	DueDate     *time.Time
}

// GenerateTasksInput represents input for AI task drafting
type GenerateTasksInput struct {
	ProjectID uint64
	Text      string
}

// GeneratedTask is a cleaned-up draft ready to be shown to the client
type GeneratedTask struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// ListTasks returns the active tasks matching the filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		ProjectID:  input.ProjectID,
		Status:     input.Status,
		Pagination: input.Pagination,
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns an active task
func (s *TaskService) GetTask(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates and stores a new task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	fields := apperrors.FieldErrors{}
	if err := s.checkProject(ctx, fields, input.ProjectID); err != nil {
		return nil, err
	}
	checkStatus(fields, input.Status)
	checkTitle(fields, strings.TrimSpace(input.Title))
	if !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		DueDate:     datatypes.Date(input.DueDate),
		CreatedByID: input.CreatorID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fieldError("project", apperrors.MsgInvalidPK(input.ProjectID))
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// UpdateTask applies the given fields to an active task
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := apperrors.FieldErrors{}
	if input.ProjectID != nil {
		if err := s.checkProject(ctx, fields, *input.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = *input.ProjectID
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		checkTitle(fields, title)
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		checkStatus(fields, *input.Status)
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = datatypes.Date(*input.DueDate)
	}
	if !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fieldError("project", apperrors.MsgInvalidPK(task.ProjectID))
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask soft-deletes an active task
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}

	task.MarkDeleted(s.now())
	if err := s.taskRepo.SaveSoftDelete(ctx, task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// RestoreTask brings a soft-deleted task back. Active and unknown ids both
// report ErrTaskNotFound.
func (s *TaskService) RestoreTask(ctx context.Context, id uint64) error {
	task, err := s.taskRepo.FindDeletedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	task.Restore()
	if err := s.taskRepo.SaveSoftDelete(ctx, task); err != nil {
		return fmt.Errorf("failed to restore task: %w", err)
	}
	return nil
}

// GenerateTasks asks the drafter for tasks found in the text. Nothing is
// persisted; the client decides which drafts to create.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	if _, err := s.projectRepo.FindActiveByID(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("project", apperrors.MsgInvalidPK(input.ProjectID))
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	drafts, err := s.drafter.DraftTasks(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("%w (max %d)", ErrAITooManyTasks, constants.MaxAIGeneratedTasks)
	}

	valid := make([]GeneratedTask, 0, len(drafts))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		title := strings.TrimSpace(draft.Title)
		if title == "" {
			continue
		}

		task := GeneratedTask{Title: title, Description: strings.TrimSpace(draft.Description)}
		if draft.DueDate != nil {
			if due, err := time.Parse("2006-01-02", strings.TrimSpace(*draft.DueDate)); err == nil && !due.Before(cutoff) {
				task.DueDate = &due
			}
		}
		valid = append(valid, task)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

// checkProject records a field error when the referenced project row does
// not exist. Soft-deleted projects still count as existing.
func (s *TaskService) checkProject(ctx context.Context, fields apperrors.FieldErrors, projectID uint64) error {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		fields.Add("project", apperrors.MsgInvalidPK(projectID))
	}
	return nil
}

func checkTitle(fields apperrors.FieldErrors, title string) {
	switch {
	case title == "":
		fields.Add("title", apperrors.MsgBlank)
	case utf8.RuneCountInString(title) > constants.MaxTitleLength:
		fields.Add("title", apperrors.MsgMaxLength(constants.MaxTitleLength))
	}
}

func checkStatus(fields apperrors.FieldErrors, status models.TaskStatus) {
	if !status.Valid() {
		fields.Add("status", apperrors.MsgInvalidChoice(status))
	}
}
