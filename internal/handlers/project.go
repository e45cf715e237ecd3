package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// projectRequest is the body of POST and PUT. users is optional and, when
// sent, replaces the whole collaborator list.
type projectRequest struct {
	Name        *string   `json:"name" binding:"required,max=255"`
	Description *string   `json:"description" binding:"required"`
	Users       *[]uint64 `json:"users"`
}

// projectPatchRequest is the body of PATCH; absent fields are left as they are.
type projectPatchRequest struct {
	Name        *string   `json:"name" binding:"omitnil,required,max=255"`
	Description *string   `json:"description" binding:"omitnil,required"`
	Users       *[]uint64 `json:"users"`
}

// ListProjects returns all active projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header(constants.HeaderTotalCount, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns an active project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := resourceID(c, msgProjectNotFound)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.CreateProjectInput{
		Name:        *req.Name,
		Description: *req.Description,
		CreatorID:   userID,
	}
	if req.Users != nil {
		input.UserIDs = *req.Users
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject replaces the writable fields of an active project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := resourceID(c, msgProjectNotFound)
	if !ok {
		return
	}

	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}

	h.update(c, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		UserIDs:     req.Users,
	})
}

// PartialUpdateProject updates only the fields present in the body
func (h *ProjectHandler) PartialUpdateProject(c *gin.Context) {
	id, ok := resourceID(c, msgProjectNotFound)
	if !ok {
		return
	}

	var req projectPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	h.update(c, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		UserIDs:     req.Users,
	})
}

func (h *ProjectHandler) update(c *gin.Context, id uint64, input services.UpdateProjectInput) {
	project, err := h.projectService.UpdateProject(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject soft-deletes an active project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := resourceID(c, msgProjectNotFound)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "project soft deleted"})
}

// RestoreProject restores a soft-deleted project
func (h *ProjectHandler) RestoreProject(c *gin.Context) {
	id, ok := resourceID(c, msgProjectNotFound)
	if !ok {
		return
	}

	if err := h.projectService.RestoreProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "project restored"})
}
