package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nwaizer/projecthub/internal/authz"
	apierrors "github.com/nwaizer/projecthub/internal/errors"
	"github.com/nwaizer/projecthub/internal/services"
)

// respondServiceError maps service-layer errors onto HTTP responses.
// Authorization failures are reported distinctly from missing targets.
func respondServiceError(c *gin.Context, err error) {
	var denied *authz.DeniedError
	if errors.As(err, &denied) {
		apierrors.Forbidden(c, denied.Error())
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrWorkItemNotFound),
		errors.Is(err, services.ErrTargetUserNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrCreatorCannotBeRemoved),
		errors.Is(err, services.ErrMemberRemovalNotAllowed),
		errors.Is(err, services.ErrCreatorRoleImmutable),
		errors.Is(err, services.ErrCreatorCannotLeave):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrUsernameTakenUpdate),
		errors.Is(err, services.ErrUserOwnsProjects):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrWorkItemNameRequired),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrNotInvited),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		apierrors.InternalError(c, "")
	}
}

// withWarnings wraps a response payload together with any consistency
// gaps the propagation reported. The primary result is always returned;
// the gaps describe mirrored updates that still need repair.
func withWarnings(key string, payload interface{}, gaps []services.Gap) gin.H {
	h := gin.H{key: payload}
	if len(gaps) > 0 {
		h["warnings"] = gaps
	}
	return h
}
