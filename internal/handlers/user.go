package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nwaizer/projecthub/internal/dto"
	apierrors "github.com/nwaizer/projecthub/internal/errors"
	"github.com/nwaizer/projecthub/internal/middleware"
	"github.com/nwaizer/projecthub/internal/services"
	"github.com/nwaizer/projecthub/internal/utils"
)

// UserHandler coordinates user-related HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// ListUsers returns a page of users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(params.Page, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetUser returns one user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies a profile patch and/or one of the self-service
// relationship actions (invite accept/reject, leaving a project, task
// or bug). Users can only update themselves.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	if actorID != id {
		apierrors.Forbidden(c, "Users can only update their own account")
		return
	}

	type UpdateUserRequest struct {
		Name         *string `json:"name"`
		Username     *string `json:"username"`
		Bio          *string `json:"bio"`
		AcceptInvite *uint64 `json:"accept_invite"`
		RejectInvite *uint64 `json:"reject_invite"`
		LeaveProject *uint64 `json:"leave_project"`
		LeaveTask    *uint64 `json:"leave_task"`
		LeaveBug     *uint64 `json:"leave_bug"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(id, services.UpdateUserInput{
		Name:     req.Name,
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var warnings []services.Gap

	if req.AcceptInvite != nil {
		if user, err = h.userService.AcceptInvite(id, *req.AcceptInvite); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if req.RejectInvite != nil {
		if user, err = h.userService.RejectInvite(id, *req.RejectInvite); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if req.LeaveProject != nil {
		var gaps []services.Gap
		if user, gaps, err = h.userService.LeaveProject(id, *req.LeaveProject); err != nil {
			respondServiceError(c, err)
			return
		}
		warnings = append(warnings, gaps...)
	}
	if req.LeaveTask != nil {
		if user, err = h.userService.LeaveWorkItem(id, *req.LeaveTask); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if req.LeaveBug != nil {
		if user, err = h.userService.LeaveWorkItem(id, *req.LeaveBug); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, withWarnings("user", dto.ToUserDTO(*user), warnings))
}

// DeleteUser removes the authenticated user's own account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	if actorID != id {
		apierrors.Forbidden(c, "Users can only delete their own account")
		return
	}

	gaps, err := h.userService.Delete(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, withWarnings("deleted", id, gaps))
}
