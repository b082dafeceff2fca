// Package authz decides whether a resolved project role permits an
// operation. Decisions have no side effects; a denial never touches any
// entity.
package authz

import (
	"fmt"

	"github.com/nwaizer/projecthub/internal/models"
)

type Operation int

const (
	OpCreateWorkItem Operation = iota
	OpUpdateWorkItemContent
	OpUpdateWorkItemStatus
	OpDeleteWorkItem
	OpUpdateProject
	OpChangeMemberRole
	OpChangeProjectStatus
	OpDeleteProject
)

func (op Operation) String() string {
	switch op {
	case OpCreateWorkItem:
		return "create work item"
	case OpUpdateWorkItemContent:
		return "update work item"
	case OpUpdateWorkItemStatus:
		return "update work item status"
	case OpDeleteWorkItem:
		return "delete work item"
	case OpUpdateProject:
		return "update project"
	case OpChangeMemberRole:
		return "change member role"
	case OpChangeProjectStatus:
		return "change project status"
	case OpDeleteProject:
		return "delete project"
	default:
		return "unknown operation"
	}
}

// DeniedError reports an operation the actor's role does not permit.
type DeniedError struct {
	Op   Operation
	Role models.Role
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("role %s may not %s", e.Role, e.Op)
}

// Authorize returns nil when role permits op, or a *DeniedError.
// Status updates on work items are deliberately open to any
// authenticated actor: flipping a status is a frequent, low-privilege
// action, while structural edits require admin standing.
func Authorize(op Operation, role models.Role) error {
	allowed := false
	switch op {
	case OpCreateWorkItem, OpUpdateWorkItemContent, OpDeleteWorkItem,
		OpUpdateProject, OpChangeMemberRole:
		allowed = role == models.RoleCreator || role == models.RoleAdmin
	case OpUpdateWorkItemStatus:
		allowed = true
	case OpChangeProjectStatus:
		allowed = role == models.RoleCreator || role == models.RoleAdmin ||
			role == models.RoleDeveloper
	case OpDeleteProject:
		allowed = role == models.RoleCreator
	}
	if !allowed {
		return &DeniedError{Op: op, Role: role}
	}
	return nil
}

// CanRemoveMember reports whether an actor with the given role may
// remove a member holding the target role. The creator can never be
// removed. Admins may only remove developers, clients and invitees.
func CanRemoveMember(actor, target models.Role) bool {
	if target == models.RoleCreator {
		return false
	}
	switch actor {
	case models.RoleCreator:
		return true
	case models.RoleAdmin:
		return target == models.RoleDeveloper || target == models.RoleClient ||
			target == models.RoleInvitee
	default:
		return false
	}
}
