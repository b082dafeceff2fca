package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nwaizer/projecthub/internal/errors"
	"github.com/nwaizer/projecthub/internal/middleware"
	"github.com/nwaizer/projecthub/internal/models"
	"github.com/nwaizer/projecthub/internal/services"
	"github.com/nwaizer/projecthub/internal/utils"
)

// WorkItemHandler serves one work-item kind. It is registered twice,
// once for /api/tasks and once for /api/bugs; everything below the
// route prefix is shared.
type WorkItemHandler struct {
	kind            models.WorkItemKind
	workItemService *services.WorkItemService
}

// NewWorkItemHandler creates a handler for the given kind.
func NewWorkItemHandler(kind models.WorkItemKind, workItemService *services.WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{
		kind:            kind,
		workItemService: workItemService,
	}
}

// ListWorkItems returns a page of items of the handler's kind. A
// project query parameter narrows the listing to one project's items.
func (h *WorkItemHandler) ListWorkItems(c *gin.Context) {
	if projectParam := c.Query("project"); projectParam != "" {
		projectID, err := strconv.ParseUint(projectParam, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project")
			return
		}

		items, err := h.workItemService.ListByProject(h.kind, projectID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{string(h.kind) + "s": items})
		return
	}

	params := utils.GetPaginationParams(c)

	items, total, err := h.workItemService.List(h.kind, params.Page, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		string(h.kind) + "s": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetWorkItem returns one item by ID.
func (h *WorkItemHandler) GetWorkItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.workItemService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateWorkItem creates an item under a project.
func (h *WorkItemHandler) CreateWorkItem(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateWorkItemRequest struct {
		Name        string     `json:"name" binding:"required"`
		Description string     `json:"description" binding:"required"`
		Project     uint64     `json:"project" binding:"required"`
		EndDate     *time.Time `json:"end_date"`
		Assigned    []uint64   `json:"assigned"`
	}

	var req CreateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, gaps, err := h.workItemService.Create(services.CreateWorkItemInput{
		Kind:        h.kind,
		ProjectID:   req.Project,
		ActorID:     actorID,
		Name:        req.Name,
		Description: req.Description,
		EndDate:     req.EndDate,
		Assigned:    req.Assigned,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withWarnings(string(h.kind), item, gaps))
}

// UpdateWorkItem applies a content patch, including the assigned set.
func (h *WorkItemHandler) UpdateWorkItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateWorkItemRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		EndDate     *time.Time `json:"end_date"`
		Assigned    *[]uint64  `json:"assigned"`
	}

	var req UpdateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, gaps, err := h.workItemService.UpdateContent(id, actorID, services.UpdateWorkItemInput{
		Name:        req.Name,
		Description: req.Description,
		EndDate:     req.EndDate,
		Assigned:    req.Assigned,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, withWarnings(string(h.kind), item, gaps))
}

// UpdateWorkItemStatus sets the item's status. Open to any
// authenticated user; marking work done is not a privileged edit.
func (h *WorkItemHandler) UpdateWorkItemStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateStatusRequest struct {
		Status models.WorkItemStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.workItemService.UpdateStatus(id, actorID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteWorkItem removes an item and its mirrored references.
func (h *WorkItemHandler) DeleteWorkItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	gaps, err := h.workItemService.Delete(id, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, withWarnings("deleted", id, gaps))
}

// GenerateWorkItems drafts items from free text via the AI service.
func (h *WorkItemHandler) GenerateWorkItems(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type GenerateRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.workItemService.GenerateDrafts(c.Request.Context(), services.GenerateDraftsInput{
		Text: req.Text,
		Kind: h.kind,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}
