package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// taskRequest is the body of POST and PUT
type taskRequest struct {
	Project     *uint64 `json:"project" binding:"required"`
	Title       *string `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"required"`
	Status      *string `json:"status" binding:"required,oneof=pending completed"`
	DueDate     *string `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// taskPatchRequest is the body of PATCH; absent fields are left as they are.
type taskPatchRequest struct {
	Project     *uint64 `json:"project" binding:"omitnil,required"`
	Title       *string `json:"title" binding:"omitnil,required,max=255"`
	Description *string `json:"description" binding:"omitnil,required"`
	Status      *string `json:"status" binding:"omitnil,oneof=pending completed"`
	DueDate     *string `json:"due_date" binding:"omitnil,datetime=2006-01-02"`
}

func (r taskPatchRequest) toInput() services.UpdateTaskInput {
	input := services.UpdateTaskInput{
		ProjectID:   r.Project,
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status := models.TaskStatus(*r.Status)
		input.Status = &status
	}
	if r.DueDate != nil {
		// The binding tag has already checked the layout.
		due, _ := time.Parse(dto.DateLayout, *r.DueDate)
		input.DueDate = &due
	}
	return input
}

// ListTasks returns active tasks, optionally filtered by project and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{
		Pagination: utils.GetPaginationParams(c),
	}

	fields := apierrors.FieldErrors{}
	if raw, ok := c.GetQuery("project"); ok && raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fields.Add("project", msgInvalidWholeNumber)
		} else {
			input.ProjectID = &projectID
		}
	}
	if raw, ok := c.GetQuery("status"); ok && raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			fields.Add("status", apierrors.MsgInvalidChoice(raw))
		} else {
			input.Status = &status
		}
	}
	if !fields.Empty() {
		apierrors.ValidationFailed(c, fields)
		return
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header(constants.HeaderTotalCount, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns an active task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := resourceID(c, msgTaskNotFound)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}

	due, _ := time.Parse(dto.DateLayout, *req.DueDate)
	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		ProjectID:   *req.Project,
		Title:       *req.Title,
		Description: *req.Description,
		Status:      models.TaskStatus(*req.Status),
		DueDate:     due,
		CreatorID:   userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask replaces the writable fields of an active task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := resourceID(c, msgTaskNotFound)
	if !ok {
		return
	}

	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}

	h.update(c, id, taskPatchRequest(req).toInput())
}

// PartialUpdateTask updates only the fields present in the body
func (h *TaskHandler) PartialUpdateTask(c *gin.Context) {
	id, ok := resourceID(c, msgTaskNotFound)
	if !ok {
		return
	}

	var req taskPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	h.update(c, id, req.toInput())
}

func (h *TaskHandler) update(c *gin.Context, id uint64, input services.UpdateTaskInput) {
	task, err := h.taskService.UpdateTask(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask soft-deletes an active task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := resourceID(c, msgTaskNotFound)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "task soft deleted"})
}

// RestoreTask restores a soft-deleted task
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	id, ok := resourceID(c, msgTaskNotFound)
	if !ok {
		return
	}

	if err := h.taskService.RestoreTask(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "task restored"})
}

// GenerateTasks drafts tasks for a project from free text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Project *uint64 `json:"project" binding:"required"`
		Text    *string `json:"text" binding:"required,max=10000"`
	}

	var req GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		ProjectID: *req.Project,
		Text:      *req.Text,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGeneratedTasksResponse(drafts))
}
