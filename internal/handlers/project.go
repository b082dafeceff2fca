package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nwaizer/projecthub/internal/errors"
	"github.com/nwaizer/projecthub/internal/middleware"
	"github.com/nwaizer/projecthub/internal/services"
	"github.com/nwaizer/projecthub/internal/utils"
)

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns a page of projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.List(params.Page, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetProject returns one project by ID.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject creates a project with the current user as creator.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Invites     []uint64 `json:"invites"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, gaps, err := h.projectService.Create(services.CreateProjectInput{
		ActorID:     actorID,
		Name:        req.Name,
		Description: req.Description,
		Invites:     req.Invites,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withWarnings("project", project, gaps))
}

// UpdateProject applies a basic-field patch, an invite delta, and an
// optional member-removal list.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		EndDate     *time.Time `json:"end_date"`
		AddInvites  []uint64   `json:"add_invites"`
		RemoveUsers []uint64   `json:"remove_users"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, gaps, err := h.projectService.Update(id, actorID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		EndDate:     req.EndDate,
		AddInvites:  req.AddInvites,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(req.RemoveUsers) > 0 {
		var removeGaps []services.Gap
		project, removeGaps, err = h.projectService.RemoveMembers(id, actorID, req.RemoveUsers)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		gaps = append(gaps, removeGaps...)
	}

	c.JSON(http.StatusOK, withWarnings("project", project, gaps))
}

// ChangeProjectStatus marks the project active or closed.
func (h *ProjectHandler) ChangeProjectStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangeStatusRequest struct {
		Status *bool `json:"status" binding:"required"`
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.ChangeStatus(id, actorID, *req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// ChangeMemberRole moves a member into the requested role set.
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangeRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, gaps, err := h.projectService.ChangeRole(id, actorID, targetID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, withWarnings("project", project, gaps))
}

// DeleteProject removes a project and cascades to its work items and
// member references.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	gaps, err := h.projectService.Delete(id, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, withWarnings("deleted", id, gaps))
}
